package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/gokatarajesh/quiz-board/internal/db/repository"
	"github.com/gokatarajesh/quiz-board/internal/quiz"
)

type skippedSheet struct {
	Sheet  string
	Reason string
}

// parseWorkbook turns every sheet into a category titled by the sheet name.
// Rows after the header carry points, question and answer. Only sheets holding
// exactly one question per point tier are kept.
func parseWorkbook(f *excelize.File) ([]repository.NewCategory, []skippedSheet) {
	var (
		categories []repository.NewCategory
		skipped    []skippedSheet
	)

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			skipped = append(skipped, skippedSheet{Sheet: sheet, Reason: err.Error()})
			continue
		}

		questions, err := parseRows(rows)
		if err != nil {
			skipped = append(skipped, skippedSheet{Sheet: sheet, Reason: err.Error()})
			continue
		}
		categories = append(categories, repository.NewCategory{
			Title:     quiz.SanitizeText(sheet),
			Questions: questions,
		})
	}
	return categories, skipped
}

func parseRows(rows [][]string) ([]repository.PoolQuestion, error) {
	byTier := make(map[int]repository.PoolQuestion, len(quiz.PointTiers))
	for i, row := range rows {
		if i == 0 || len(row) < 3 {
			continue
		}

		points, err := strconv.Atoi(strings.TrimSpace(row[0]))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid points %q", i+1, row[0])
		}
		if !isTier(points) {
			return nil, fmt.Errorf("row %d: %d is not a point tier", i+1, points)
		}
		if _, dup := byTier[points]; dup {
			return nil, fmt.Errorf("row %d: duplicate %d-point question", i+1, points)
		}

		text := quiz.SanitizeText(row[1])
		answer := quiz.SanitizeText(row[2])
		if text == "" || answer == "" {
			return nil, fmt.Errorf("row %d: empty question or answer", i+1)
		}
		byTier[points] = repository.PoolQuestion{Points: points, Text: text, Answer: answer}
	}

	if len(byTier) != len(quiz.PointTiers) {
		return nil, fmt.Errorf("found %d of %d point tiers", len(byTier), len(quiz.PointTiers))
	}

	questions := make([]repository.PoolQuestion, 0, len(byTier))
	for _, q := range byTier {
		questions = append(questions, q)
	}
	sort.Slice(questions, func(i, j int) bool { return questions[i].Points < questions[j].Points })
	return questions, nil
}

func isTier(points int) bool {
	for _, t := range quiz.PointTiers {
		if t == points {
			return true
		}
	}
	return false
}
