package result

import (
	"encoding/json"
	"io"
)

// WriteJSON encodes results as an indented JSON array, the batch
// command's summary file format.
func WriteJSON(w io.Writer, results []RunResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

// ReadJSON decodes a results array previously written by WriteJSON.
func ReadJSON(r io.Reader) ([]RunResult, error) {
	var results []RunResult
	if err := json.NewDecoder(r).Decode(&results); err != nil {
		return nil, err
	}
	return results, nil
}
