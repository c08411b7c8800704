package common

import (
	"path/filepath"
	"strings"
)

// DeriveOutputPath builds an output file name next to inputFile by replacing
// its extension, e.g. expenses.csv -> expenses_processed.csv.
func DeriveOutputPath(inputFile, suffix, ext string) string {
	if inputFile == "" || inputFile == "-" {
		return ""
	}
	base := strings.TrimSuffix(filepath.Base(inputFile), filepath.Ext(inputFile))
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return filepath.Join(filepath.Dir(inputFile), base+suffix+ext)
}
