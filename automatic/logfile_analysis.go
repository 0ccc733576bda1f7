package automatic

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// AnalyzeLogFile reads a CSV file written by PlayGames and prints the same
// report the games produced.
func AnalyzeLogFile(filepath string) (string, error) {
	file, err := os.Open(filepath)
	if err != nil {
		return "", err
	}
	defer file.Close()
	return analyzeLog(file)
}

func analyzeLog(f io.Reader) (string, error) {
	r := csv.NewReader(f)
	// gameID,events,applied,rejected,ignored,inplay,remaining,placed,rows,cols
	r.FieldsPerRecord = 10

	report := &Report{}
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		if record[0] == "gameID" {
			// this is the header line
			continue
		}
		var vals [10]int
		for i, field := range record {
			vals[i], err = strconv.Atoi(field)
			if err != nil {
				return "", fmt.Errorf("line %d: %w", report.Games+2, err)
			}
		}
		report.add(GameResult{
			ID:        vals[0],
			Events:    vals[1],
			Outcomes:  [3]int{vals[2], vals[3], vals[4]},
			InPlay:    vals[5],
			Remaining: vals[6],
			Placed:    vals[7],
			Rows:      vals[8],
			Cols:      vals[9],
		})
	}
	var sb strings.Builder
	if err := report.Fprint(&sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}
