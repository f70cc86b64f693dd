package automatic

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/domino14/snakedraft/stats"
)

// AnalyzeLogFile summarizes a pick log written by AverageResult: how the
// tested strategy finished and what it drafted.
func AnalyzeLogFile(filepath string) (string, error) {
	file, err := os.Open(filepath)
	if err != nil {
		return "", err
	}
	defer file.Close()
	return analyzeLog(file)
}

func analyzeLog(in io.Reader) (string, error) {
	r := csv.NewReader(in)
	r.FieldsPerRecord = len(LogHeader)

	finishes := &stats.Statistic{}
	scores := &stats.Statistic{}
	seen := map[int]bool{}
	byCategory := map[string]int{}
	var policy string
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		if record[0] == LogHeader[0] {
			continue
		}
		testedSeat, err := strconv.Atoi(record[0])
		if err != nil {
			return "", err
		}
		seat, err := strconv.Atoi(record[3])
		if err != nil {
			return "", err
		}
		if seat != testedSeat {
			continue
		}
		policy = record[5]
		score, err := strconv.ParseFloat(record[8], 64)
		if err != nil {
			return "", err
		}
		scores.Push(score)
		byCategory[record[7]]++
		if !seen[testedSeat] {
			finish, err := strconv.Atoi(record[9])
			if err != nil {
				return "", err
			}
			finishes.Push(float64(finish))
			seen[testedSeat] = true
		}
	}

	var ss strings.Builder
	fmt.Fprintf(&ss, "Drafts played: %d\n", finishes.Iterations())
	if finishes.Iterations() == 0 {
		return ss.String(), nil
	}
	fmt.Fprintf(&ss, "%v mean finish: %.3f  Stdev: %.3f  Best: %.0f  Worst: %.0f\n",
		policy, finishes.Mean(), finishes.Stdev(), finishes.Min(), finishes.Max())
	fmt.Fprintf(&ss, "%v mean pick score: %.3f\n", policy, scores.Mean())
	cats := lo.Keys(byCategory)
	sort.Strings(cats)
	for _, c := range cats {
		fmt.Fprintf(&ss, "  %-6s%6d\n", c, byCategory[c])
	}
	return ss.String(), nil
}
