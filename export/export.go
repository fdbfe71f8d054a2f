// Package export serializes flat records to JSON or CSV files.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	log "github.com/sirupsen/logrus"
)

// JSON writes the given value to a file as pretty-printed JSON.
func JSON(filename string, v any) error {
	b, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return err
	}

	err = os.WriteFile(filename, b, 0644)
	if err != nil {
		return err
	}

	log.Infof("exported %s", filename)
	return nil
}

// CSV writes the given records to a file as CSV. The header row is derived
// from the first record's keys (sorted, for a stable column order); every
// row emits values for those keys. It is an error to export zero records,
// since no header can be derived.
func CSV(filename string, records []map[string]any) error {
	if len(records) == 0 {
		return fmt.Errorf("cannot export empty record list to csv")
	}

	var keys []string
	for k := range records[0] {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)

	err = w.Write(keys)
	if err != nil {
		return err
	}

	for _, r := range records {
		row := make([]string, len(keys))
		for i, k := range keys {
			if v, ok := r[k]; ok && v != nil {
				row[i] = fmt.Sprint(v)
			}
		}
		err = w.Write(row)
		if err != nil {
			return err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	log.Infof("exported %s", filename)
	return nil
}
