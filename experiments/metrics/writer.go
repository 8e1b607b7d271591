package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// SeriesConfig describes one series of races in an experiment.
type SeriesConfig struct {
	ID      int
	Track   string
	Racers  []string
	Policy  string
	Races   int
	Rerolls int
	Seed    uint64
}

type RaceRecord struct {
	ID     string // Race uuid
	Series int    // SeriesConfig.ID
	RaceMetric
}

type StepRecord struct {
	Race string // RaceRecord.ID
	StepMetric
}

type Writer struct {
	baseDir string
}

// NewWriter creates a directory for an experiment under dir, named by the current time.
func NewWriter(dir, name string) (*Writer, error) {
	timestamp := time.Now().UTC().Format("2006-01-02T15-04-05Z")
	baseDir := filepath.Join(dir, name, timestamp)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) WriteSeriesConfigs(configs []SeriesConfig) error {
	header := []string{"id", "track", "racers", "policy", "races", "rerolls", "seed"}
	rows := make([][]string, 0, len(configs))
	for _, config := range configs {
		rows = append(rows, []string{
			strconv.Itoa(config.ID),
			config.Track,
			strings.Join(config.Racers, ";"),
			config.Policy,
			strconv.Itoa(config.Races),
			strconv.Itoa(config.Rerolls),
			strconv.FormatUint(config.Seed, 10),
		})
	}
	return w.write("series_configs.csv", "series configs", header, rows)
}

func (w *Writer) WriteRaceRecords(records []RaceRecord) error {
	header := []string{"id", "series", "track", "outcome", "first", "second", "turns", "steps", "start_time", "end_time", "duration"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			record.ID,
			strconv.Itoa(record.Series),
			record.Track,
			record.Outcome,
			record.First,
			record.Second,
			strconv.Itoa(record.Turns),
			strconv.Itoa(record.Steps),
			record.StartTime.Format(time.RFC3339),
			record.EndTime.Format(time.RFC3339),
			record.Duration.String(),
		})
	}
	return w.write("race_records.csv", "race records", header, rows)
}

func (w *Writer) WriteStepRecords(records []StepRecord) error {
	header := []string{"race", "step", "turn", "player", "phase", "change_sets", "convergence", "passes", "reactions", "triggers", "duration"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			record.Race,
			strconv.Itoa(record.Step),
			strconv.Itoa(record.Turn),
			strconv.Itoa(record.Player),
			record.Phase,
			strconv.Itoa(record.ChangeSets),
			record.Convergence,
			strconv.Itoa(record.Passes),
			strconv.Itoa(record.Reactions),
			strconv.Itoa(record.Triggers),
			record.Duration.String(),
		})
	}
	return w.write("step_records.csv", "step records", header, rows)
}

func (w *Writer) write(file, what string, header []string, rows [][]string) error {
	path := filepath.Join(w.baseDir, file)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s file: %w", what, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)

	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write %s header: %w", what, err)
	}
	for _, row := range rows {
		err = writer.Write(row)
		if err != nil {
			return fmt.Errorf("failed to write %s row: %w", what, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", what, err)
	}
	return nil
}
