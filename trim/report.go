package trim

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"sort"
	"strconv"
)

// Filter returns the results that retained at least threshold percent of their
// alignment, sorted by path, and the number of results dropped.
func Filter(results []Result, threshold int) (retained []Result, dropped int) {
	for _, result := range results {
		if result.Retained >= float64(threshold) {
			retained = append(retained, result)
		} else {
			dropped++
		}
	}
	sort.Slice(retained, func(i, j int) bool {
		return retained[i].Path < retained[j].Path
	})
	return retained, dropped
}

// Paths lists the Path of each result.
func Paths(results []Result) []string {
	paths := make([]string, len(results))
	for i := range results {
		paths[i] = results[i].Path
	}
	return paths
}

// Report summarises the trimming of every alignment in a run, including those
// that fall below the retention threshold.
type Report struct {
	Results   []Result
	Threshold int
}

// Mean is the average percentage retained over all results.
func (r Report) Mean() float64 {
	if len(r.Results) == 0 {
		return 0
	}
	var sum float64
	for _, result := range r.Results {
		sum += result.Retained
	}
	return sum / float64(len(r.Results))
}

// Filtered is the number of results below the retention threshold.
func (r Report) Filtered() int {
	_, dropped := Filter(r.Results, r.Threshold)
	return dropped
}

func (r Report) summary() []string {
	return []string{
		fmt.Sprintf("%6d sequence alignments trimmed", len(r.Results)),
		fmt.Sprintf("%5.2f%% sequence retained on average overall", r.Mean()),
		fmt.Sprintf("%6d orthologs filtered as they retained less than %d%%", r.Filtered(), r.Threshold),
	}
}

// Log writes the summary lines to logger.
func (r Report) Log(logger *log.Logger) {
	for _, line := range r.summary() {
		logger.Println(line)
	}
}

// sorted orders the results by percentage retained, then file name.
func (r Report) sorted() []Result {
	results := append([]Result(nil), r.Results...)
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Retained != results[j].Retained {
			return results[i].Retained < results[j].Retained
		}
		return filepath.Base(results[i].Path) < filepath.Base(results[j].Path)
	})
	return results
}

// WriteTo writes the report as tab separated values, preceded by the summary
// as comment lines:
//
//	#     2 sequence alignments trimmed
//	#83.33% sequence retained on average overall
//	#     0 orthologs filtered as they retained less than 50%
//	# Trimmed file	Original length	Trimmed length	Percentage retained
//	sico_1.nt_ali.fasta	9	6	66.67
//	sico_2.nt_ali.fasta	9	9	100.00
func (r Report) WriteTo(w io.Writer) (int64, error) {
	var buf []byte
	cw := &countWriter{w: w}
	bw := bufio.NewWriter(cw)

	for _, line := range r.summary() {
		bw.WriteByte('#')
		bw.WriteString(line)
		bw.WriteByte('\n')
	}
	bw.WriteString("# Trimmed file\tOriginal length\tTrimmed length\tPercentage retained\n")

	for _, result := range r.sorted() {
		buf = buf[:0]
		buf = append(buf, filepath.Base(result.Path)...)
		buf = append(buf, '\t')
		buf = strconv.AppendInt(buf, int64(result.OriginalLength), 10)
		buf = append(buf, '\t')
		buf = strconv.AppendInt(buf, int64(result.TrimmedLength), 10)
		buf = append(buf, '\t')
		buf = strconv.AppendFloat(buf, result.Retained, 'f', 2, 64)
		buf = append(buf, '\n')
		bw.Write(buf)
	}

	err := bw.Flush()
	return cw.n, err
}

type countWriter struct {
	w io.Writer
	n int64
}

func (c *countWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
