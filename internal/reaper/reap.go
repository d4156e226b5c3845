package reaper

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/litetable/litetable-htable/internal/htable"
	"github.com/litetable/litetable-htable/internal/metrics"
	"github.com/litetable/litetable-htable/internal/storage"
	"github.com/rs/zerolog/log"
)

// write appends one expired row to the GC log file.
func (r *Reaper) write(row htable.ExpiredRow) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	file, err := os.OpenFile(r.filePath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0640)
	if err != nil {
		return err
	}
	defer func(file *os.File) {
		closeErr := file.Close()
		if closeErr != nil {
			log.Error().Err(closeErr).Str("file", r.filePath).Msg("failed to close file")
		}
	}(file)

	data, err := json.Marshal(row)
	if err != nil {
		return err
	}
	_, err = file.Write(append(data, '\n'))
	return err
}

// readGCLog loads every entry of the GC log, skipping lines that do not parse.
func (r *Reaper) readGCLog() ([]htable.ExpiredRow, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var entries []htable.ExpiredRow
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var row htable.ExpiredRow
		if err = json.Unmarshal(line, &row); err != nil {
			log.Error().Err(err).Msg("Error unmarshalling GC log entry")
			continue
		}
		entries = append(entries, row)
	}
	return entries, scanner.Err()
}

// garbageCollector compacts every row named in the GC log. Rows that fail stay in the log
// for the next run.
func (r *Reaper) garbageCollector() {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	start := r.now()
	entries, err := r.readGCLog()
	if err != nil {
		log.Error().Err(err).Msg("Error reading GC log file")
		return
	}

	var (
		failed    []htable.ExpiredRow
		processed int
		removed   int
	)
	seen := make(map[string]struct{}, len(entries))
	for _, row := range entries {
		key := row.Family + "\x00" + row.RowKey
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		processed++

		n, err := r.reap(row, start)
		if err != nil {
			log.Error().Err(err).Str("family", row.Family).Str("rowKey", row.RowKey).Msg("failed to reap row")
			failed = append(failed, row)
			continue
		}
		removed += n
	}
	metrics.CellsReaped.Add(float64(removed))

	if err = r.rewriteGCLog(failed); err != nil {
		log.Error().Err(err).Msg("Error rewriting GC log file")
	}

	log.Debug().
		Str("duration", time.Since(start).String()).
		Msgf("Garbage collection complete: processed %d rows, removed %d cells", processed, removed)
}

// reap compacts one row against the current settings of its family, which may have
// changed since the row was recorded.
func (r *Reaper) reap(row htable.ExpiredRow, now time.Time) (int, error) {
	d, err := r.storage.Descriptor(row.Family)
	if errors.Is(err, storage.ErrFamilyNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return r.storage.CompactRow(row.Family, []byte(row.RowKey), d, now)
}

// rewriteGCLog replaces the GC log file with entries.
func (r *Reaper) rewriteGCLog(entries []htable.ExpiredRow) error {
	file, err := os.OpenFile(r.filePath, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0640)
	if err != nil {
		return fmt.Errorf("failed to truncate GC log file: %w", err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	for _, entry := range entries {
		data, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("failed to marshal entry: %w", err)
		}
		if _, err = w.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("failed to write active entry: %w", err)
		}
	}
	if err = w.Flush(); err != nil {
		return fmt.Errorf("failed to write active entry: %w", err)
	}
	return file.Sync()
}
