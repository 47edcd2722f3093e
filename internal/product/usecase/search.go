package usecase

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/fekuna/omnipos-catalog-service/internal/auth"
	"github.com/fekuna/omnipos-catalog-service/internal/indexer"
	"github.com/fekuna/omnipos-catalog-service/internal/product/dto"
	"github.com/fekuna/omnipos-catalog-service/pkg/apperror"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const (
	defaultSuggestSize = 10
	maxSuggestSize     = 50
	exportSheet        = "Products"
	exportPageSize     = 500
)

// SuggestProducts runs a prefix search against the product index. It returns
// an empty list when search is not configured.
func (uc *productUseCase) SuggestProducts(ctx context.Context, id auth.Identity, q string, size int) ([]dto.Suggestion, error) {
	out := []dto.Suggestion{}
	q = strings.TrimSpace(q)
	if uc.es == nil || q == "" {
		return out, nil
	}
	if size <= 0 {
		size = defaultSuggestSize
	}
	if size > maxSuggestSize {
		size = maxSuggestSize
	}

	filter := []interface{}{
		map[string]interface{}{"term": map[string]interface{}{"tenant_id": id.TenantID}},
	}
	if id.IsFactorySite() {
		filter = append(filter, map[string]interface{}{"term": map[string]interface{}{"department_id": id.DepartmentID}})
	}
	query := map[string]interface{}{
		"size": size,
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": map[string]interface{}{
					"multi_match": map[string]interface{}{
						"query":  q,
						"type":   "bool_prefix",
						"fields": []string{"name", "name._2gram", "name._3gram", "spu_code", "sku_codes"},
					},
				},
				"filter": filter,
			},
		},
	}

	res, err := uc.es.Search(ctx, uc.searchIndex, query)
	if err != nil {
		uc.logger.Error("product suggestion search failed", zap.String("q", q), zap.Error(err))
		return nil, apperror.Internal(err)
	}
	for _, hit := range res.Hits.Hits {
		var doc indexer.Document
		if err := json.Unmarshal(hit.Source, &doc); err != nil {
			uc.logger.Warn("skipping undecodable search hit", zap.String("id", hit.ID), zap.Error(err))
			continue
		}
		out = append(out, dto.Suggestion{ID: hit.ID, Name: doc.Name, SPUCode: doc.SPUCode})
	}
	return out, nil
}

var exportHeaders = []string{"ID", "Name", "SPU Code", "Status", "Listed", "Visible", "Site Categories", "SKU Count"}

// ExportProducts writes every product matching filters to an xlsx workbook.
func (uc *productUseCase) ExportProducts(ctx context.Context, id auth.Identity, filters *dto.ProductFilters) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	f.SetSheetName("Sheet1", exportSheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
	})
	for i, h := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(exportSheet, cell, h)
		f.SetCellStyle(exportSheet, cell, cell, headerStyle)
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(exportSheet, col, col, 20)
	}

	page := *filters
	page.PageSize = exportPageSize
	row := 2
	for page.Page = 1; ; page.Page++ {
		items, total, err := uc.ListProducts(ctx, id, &page)
		if err != nil {
			return nil, err
		}
		for _, it := range items {
			visible := it.SiteIsVisible == nil || *it.SiteIsVisible
			values := []interface{}{
				it.ID, it.DisplayName, it.SPUCode, it.Status,
				it.IsListed, visible, strings.Join(it.SiteCategoryIDs, ","), len(it.SKUs),
			}
			cell, _ := excelize.CoordinatesToCellName(1, row)
			if err := f.SetSheetRow(exportSheet, cell, &values); err != nil {
				return nil, apperror.Internal(err)
			}
			row++
		}
		if len(items) == 0 || page.Page*exportPageSize >= total {
			break
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, apperror.Internal(err)
	}
	uc.logger.Info("products exported", zap.String("tenant_id", id.TenantID), zap.Int("rows", row-2))
	return buf.Bytes(), nil
}
