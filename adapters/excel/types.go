package excel

// RawRowData represents a row of raw spreadsheet data as header -> cell text
type RawRowData map[string]string

// ExcelData represents a complete sheet
type ExcelData struct {
	Headers []string     // Column headers
	Rows    []RawRowData // Data rows
}

// Column names of the long-format observation file
const (
	ColCountryName = "Country Name"
	ColCountryCode = "Country Code"
	ColCapital     = "Capital"
	ColContinent   = "Continent"
	ColYear        = "year"
	ColSeriesName  = "Series Name"
	ColValue       = "value"
	ColCluster     = "Cluster"
)

// RequiredColumns must all be present in an observation file
var RequiredColumns = []string{
	ColCountryName,
	ColCountryCode,
	ColCapital,
	ColContinent,
	ColYear,
	ColSeriesName,
	ColValue,
}

// Sheet names of the cluster export workbook
const (
	SheetIndicators  = "Indicators"
	SheetClusterData = "ClusterData"
)
