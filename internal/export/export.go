// Package export writes scraped reviews to timestamped CSV or XLSX
// files for offline inspection.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/eapenjoshymuttom/Review-consolidator/internal/corpus"
	"github.com/eapenjoshymuttom/Review-consolidator/internal/model"
)

var header = []string{"reviewer", "rating", "title", "date", "body", "certified_buyer", "helpful_votes"}

// Exporter writes review files under a base directory.
type Exporter struct {
	dir string
	now func() time.Time
}

func New(dir string) *Exporter {
	return &Exporter{dir: dir, now: time.Now}
}

// Filename builds the timestamped output name for a product.
func (e *Exporter) Filename(product, ext string) string {
	stamp := e.now().Format("20060102_150405")
	return filepath.Join(e.dir, fmt.Sprintf("%s_%s.%s", corpus.SanitizeKey(product), stamp, ext))
}

// CSV writes the reviews as a CSV file and returns its path.
func (e *Exporter) CSV(product string, reviews []model.Review) (string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", eris.Wrapf(err, "create export dir %s", e.dir)
	}
	path := e.Filename(product, "csv")
	f, err := os.Create(path)
	if err != nil {
		return "", eris.Wrapf(err, "create %s", path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return "", eris.Wrap(err, "write csv header")
	}
	for _, r := range reviews {
		if err := w.Write(reviewRecord(r)); err != nil {
			return "", eris.Wrap(err, "write csv row")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", eris.Wrap(err, "flush csv")
	}
	zap.L().Info("exported reviews", zap.String("path", path), zap.Int("count", len(reviews)))
	return path, nil
}

// XLSX writes the reviews as a single-sheet workbook and returns its path.
func (e *Exporter) XLSX(product string, reviews []model.Review) (string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", eris.Wrapf(err, "create export dir %s", e.dir)
	}
	path := e.Filename(product, "xlsx")

	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Reviews")
	if err != nil {
		return "", eris.Wrap(err, "add sheet")
	}
	hr := sheet.AddRow()
	for _, h := range header {
		hr.AddCell().SetString(h)
	}
	for _, r := range reviews {
		row := sheet.AddRow()
		for _, v := range reviewRecord(r) {
			row.AddCell().SetString(v)
		}
	}
	if err := f.Save(path); err != nil {
		return "", eris.Wrapf(err, "save %s", path)
	}
	zap.L().Info("exported reviews", zap.String("path", path), zap.Int("count", len(reviews)))
	return path, nil
}

func reviewRecord(r model.Review) []string {
	return []string{
		r.Reviewer,
		r.Rating,
		r.Title,
		r.Date,
		r.Body,
		strconv.FormatBool(r.CertifiedBuyer),
		r.HelpfulVotes,
	}
}
