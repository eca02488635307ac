package seed

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"foodgram/domain"
	"foodgram/pkg/ingredient"
	"foodgram/pkg/tag"
)

// ReadIngredients parses "name,measurement_unit" rows. Blank lines are
// skipped.
func ReadIngredients(r io.Reader) ([]domain.IngredientResponse, error) {
	rows, err := readRows(r, 2)
	if err != nil {
		return nil, err
	}
	out := make([]domain.IngredientResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.IngredientResponse{Name: row[0], MeasurementUnit: row[1]})
	}
	return out, nil
}

// ReadTags parses "name,color,slug" rows.
func ReadTags(r io.Reader) ([]domain.TagResponse, error) {
	rows, err := readRows(r, 3)
	if err != nil {
		return nil, err
	}
	out := make([]domain.TagResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.TagResponse{Name: row[0], Color: row[1], Slug: row[2]})
	}
	return out, nil
}

func readRows(r io.Reader, fields int) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = fields
	reader.TrimLeadingSpace = true

	var rows [][]string
	for line := 1; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		for i := range record {
			record[i] = strings.TrimSpace(record[i])
			if record[i] == "" {
				return nil, fmt.Errorf("line %d: field %d is empty", line, i+1)
			}
		}
		rows = append(rows, record)
	}
}

func Ingredients(ctx context.Context, svc ingredient.IngredientService, path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	items, err := ReadIngredients(file)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	return svc.ImportIngredients(ctx, items)
}

func Tags(ctx context.Context, svc tag.TagService, path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	items, err := ReadTags(file)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	return svc.ImportTags(ctx, items)
}
