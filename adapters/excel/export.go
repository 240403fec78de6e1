package excel

import (
	"fmt"
	"io"

	"macrolens/domain/macro"
	"macrolens/ports"

	"github.com/xuri/excelize/v2"
)

// WorkbookExporter writes the cluster export workbook: an Indicators sheet
// listing the clustering indicators and a ClusterData sheet with the joined
// peer view
type WorkbookExporter struct{}

var _ ports.ClusterExporter = WorkbookExporter{}

// NewWorkbookExporter creates an exporter
func NewWorkbookExporter() WorkbookExporter {
	return WorkbookExporter{}
}

// ClusterDataHeader returns the ClusterData column order for view
func ClusterDataHeader(view *macro.PeerView) []string {
	header := []string{ColCountryName, ColCountryCode, ColCapital, ColContinent, ColYear}
	header = append(header, view.Indicators...)
	return append(header, ColCluster)
}

// Export writes the workbook as xlsx to w
func (WorkbookExporter) Export(w io.Writer, indicators []string, view *macro.PeerView) error {
	if view == nil {
		view = &macro.PeerView{}
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetIndicators); err != nil {
		return fmt.Errorf("failed to name indicators sheet: %w", err)
	}
	if err := writeRow(f, SheetIndicators, 1, []interface{}{SheetIndicators}); err != nil {
		return err
	}
	for i, ind := range indicators {
		if err := writeRow(f, SheetIndicators, i+2, []interface{}{ind}); err != nil {
			return err
		}
	}

	if _, err := f.NewSheet(SheetClusterData); err != nil {
		return fmt.Errorf("failed to create cluster data sheet: %w", err)
	}
	header := ClusterDataHeader(view)
	headerRow := make([]interface{}, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	if err := writeRow(f, SheetClusterData, 1, headerRow); err != nil {
		return err
	}

	for i, r := range view.Rows {
		row := []interface{}{r.Country, r.Code, r.Capital, string(r.Continent), r.Year}
		for _, ind := range view.Indicators {
			if v, ok := r.Values[ind]; ok {
				row = append(row, v)
			} else {
				row = append(row, "")
			}
		}
		row = append(row, r.Cluster)
		if err := writeRow(f, SheetClusterData, i+2, row); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, rowNum int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, rowNum, err)
	}
	return nil
}
