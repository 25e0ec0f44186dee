package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"vertex/internal/app"
	"vertex/internal/domain/model"
)

// resolveSheet accepts a sheet ID or its 1-based position in `vertex sheets`.
func resolveSheet(ctx context.Context, tracker *app.Tracker, arg string) (*model.Sheet, error) {
	arg = strings.TrimSpace(arg)
	sheet, err := tracker.Sheets.GetSheet(ctx, arg)
	if err != nil {
		return nil, err
	}
	if sheet != nil {
		return sheet, nil
	}
	if n, err := strconv.Atoi(arg); err == nil {
		sheets := tracker.Sheets.GetSheets(ctx)
		if n >= 1 && n <= len(sheets) {
			return &sheets[n-1], nil
		}
	}
	return nil, fmt.Errorf("%q: %w", arg, model.ErrSheetNotFound)
}

// resolveQuestion accepts a question ID or its 1-based row in `vertex show`.
func resolveQuestion(sheet *model.Sheet, arg string) (*model.Question, error) {
	arg = strings.TrimSpace(arg)
	if q, _ := sheet.Question(arg); q != nil {
		return q, nil
	}
	if n, err := strconv.Atoi(arg); err == nil && n >= 1 && n <= len(sheet.Questions) {
		return &sheet.Questions[n-1], nil
	}
	return nil, fmt.Errorf("%q: %w", arg, model.ErrQuestionNotFound)
}

// target resolves the common <sheet> <question> argument pair.
func (c *cli) target(ctx context.Context, sheetArg, questionArg string) (*app.Tracker, *model.Sheet, *model.Question, error) {
	tracker, err := c.open(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	sheet, err := resolveSheet(ctx, tracker, sheetArg)
	if err != nil {
		return nil, nil, nil, err
	}
	q, err := resolveQuestion(sheet, questionArg)
	if err != nil {
		return nil, nil, nil, err
	}
	return tracker, sheet, q, nil
}
