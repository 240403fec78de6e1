package excel

// ExcelConfig holds configuration for the spreadsheet data source
type ExcelConfig struct {
	FilePath string `json:"file_path"`
	// Sheet to read for xlsx files; empty means the first sheet
	Sheet string `json:"sheet"`
	// NullTokens are cell texts read as missing values
	NullTokens []string `json:"null_tokens"`
}

// DefaultExcelConfig returns sensible defaults for observation files
func DefaultExcelConfig() ExcelConfig {
	return ExcelConfig{
		NullTokens: []string{"", "..", "NA", "N/A", "NaN", "nan", "null"},
	}
}
