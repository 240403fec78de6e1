package excel

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"macrolens/domain/core"
	"macrolens/domain/macro"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const sampleCSV = `Country Name,Country Code,Capital,Continent,year,Series Name,value
Ghana,GHA,Accra,Africa,2010,GDP (current US$),100
France,FRA,Paris,Europe,2010,GDP (current US$),200
Ghana,GHA,Accra,Africa,2011,GDP (current US$),
Peru,PER,Lima,S. America,2011.0,GDP (current US$),..
`

func writeXLSX(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &r))
	}
	path := filepath.Join(t.TempDir(), "macro.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestFileSource_CSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "macro.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))

	src := NewFileSource(ExcelConfig{FilePath: path, NullTokens: DefaultExcelConfig().NullTokens})
	obs, err := src.LoadObservations(context.Background())
	require.NoError(t, err)
	require.Len(t, obs, 4)

	assert.Equal(t, "Ghana", obs[0].Country)
	assert.Equal(t, macro.Africa, obs[0].Continent)
	require.NotNil(t, obs[0].Value)
	assert.Equal(t, 100.0, *obs[0].Value)

	assert.Nil(t, obs[2].Value, "empty cell is a missing value")
	assert.Nil(t, obs[3].Value, "'..' is a missing value")
	assert.Equal(t, 2011, obs[3].Year)
	assert.Equal(t, macro.SouthAmerica, obs[3].Continent)
	assert.Equal(t, path, src.Describe())
}

func TestFileSource_XLSX(t *testing.T) {
	path := writeXLSX(t, [][]interface{}{
		{"Country Name", "Country Code", "Capital", "Continent", "YEAR", "Series Name", "value"},
		{"Ghana", "GHA", "Accra", "Africa", 2010, "Population, total", 24.5},
		{"Chile", "CHL", "Santiago", "S. America", 2010, "Population, total", nil},
	})

	obs, err := NewFileSource(ExcelConfig{FilePath: path}).LoadObservations(context.Background())
	require.NoError(t, err)
	require.Len(t, obs, 2)

	assert.Equal(t, 2010, obs[0].Year)
	require.NotNil(t, obs[0].Value)
	assert.InDelta(t, 24.5, *obs[0].Value, 1e-9)
	assert.Nil(t, obs[1].Value)
}

func TestConvertRows_Malformed(t *testing.T) {
	reader := NewDataReader("in.csv", "")

	cases := map[string]string{
		"non-numeric value": "Ghana,GHA,Accra,Africa,2010,GDP,abc",
		"bad year":          "Ghana,GHA,Accra,Africa,20x0,GDP,1",
		"unknown continent": "Ghana,GHA,Accra,Atlantis,2010,GDP,1",
		"empty country":     ",GHA,Accra,Africa,2010,GDP,1",
		"decimal comma":     `Ghana,GHA,Accra,Africa,2010,GDP,"1,5"`,
		"short group":       `Ghana,GHA,Accra,Africa,2010,GDP,"12,34"`,
	}

	for name, line := range cases {
		t.Run(name, func(t *testing.T) {
			data, err := reader.ReadCSV(strings.NewReader(strings.SplitN(sampleCSV, "\n", 2)[0] + "\n" + line + "\n"))
			require.NoError(t, err)

			_, err = ConvertRows(data, nil)
			require.Error(t, err)
			assert.True(t, errors.Is(err, core.ErrMalformedObservation), "got %v", err)
			assert.Contains(t, err.Error(), "row 2")
		})
	}
}

func TestFileSource_ZeroConfigReadsNullTokens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "macro.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))

	obs, err := NewFileSource(ExcelConfig{FilePath: path}).LoadObservations(context.Background())
	require.NoError(t, err)
	require.Len(t, obs, 4)
	assert.Nil(t, obs[2].Value)
	assert.Nil(t, obs[3].Value)

	data, err := NewDataReader("in.csv", "").ReadCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	_, err = ConvertRows(data, map[string]bool{})
	assert.NoError(t, err, "an empty token set falls back to the defaults")
}

func TestConvertRows_ThousandsSeparators(t *testing.T) {
	header := strings.SplitN(sampleCSV, "\n", 2)[0]
	data, err := NewDataReader("in.csv", "").ReadCSV(strings.NewReader(header + "\n" +
		`Ghana,GHA,Accra,Africa,2010,GDP,"1,234,567.5"` + "\n" +
		`Kenya,KEN,Nairobi,Africa,2010,GDP,"-12,000"` + "\n"))
	require.NoError(t, err)

	obs, err := ConvertRows(data, nil)
	require.NoError(t, err)
	require.Len(t, obs, 2)
	assert.Equal(t, 1234567.5, *obs[0].Value)
	assert.Equal(t, -12000.0, *obs[1].Value)
}

func TestReadCSV_MissingColumns(t *testing.T) {
	_, err := NewDataReader("in.csv", "").ReadCSV(strings.NewReader("Country Name,year\nGhana,2010\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Series Name")
}

func TestReadData_MissingFile(t *testing.T) {
	_, err := NewDataReader(filepath.Join(t.TempDir(), "nope.xlsx"), "").ReadData()
	assert.Error(t, err)
}

func TestWorkbookExporter_TwoSheets(t *testing.T) {
	view := &macro.PeerView{
		Indicators: []string{"GDP", "Pop"},
		Rows: []macro.PeerRow{
			{
				WideRecord: macro.WideRecord{
					RecordKey: macro.RecordKey{Country: "Ghana", Code: "GHA", Capital: "Accra", Continent: macro.Africa, Year: 2010},
					Values:    map[string]float64{"GDP": 1.5},
				},
				Cluster: "Group 2",
			},
			{
				WideRecord: macro.WideRecord{
					RecordKey: macro.RecordKey{Country: "Peru", Code: "PER", Capital: "Lima", Continent: macro.SouthAmerica, Year: 2010},
					Values:    map[string]float64{"GDP": 3, "Pop": 4},
				},
			},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, NewWorkbookExporter().Export(&buf, []string{"GDP"}, view))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetIndicators, SheetClusterData}, f.GetSheetList())

	indicators, err := f.GetRows(SheetIndicators)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Indicators"}, {"GDP"}}, indicators)

	data, err := f.GetRows(SheetClusterData)
	require.NoError(t, err)
	require.Len(t, data, 3)
	assert.Equal(t, []string{"Country Name", "Country Code", "Capital", "Continent", "year", "GDP", "Pop", "Cluster"}, data[0])
	assert.Equal(t, "Ghana", data[1][0])
	assert.Equal(t, "1.5", data[1][5])
	assert.Equal(t, "Group 2", data[1][7])
	assert.Equal(t, "S. America", data[2][3])
	assert.Equal(t, "4", data[2][6])
}
