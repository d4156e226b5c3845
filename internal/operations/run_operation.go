package operations

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/litetable/litetable-htable/internal/litetable"
	"github.com/rs/zerolog/log"
)

// Run accepts a buffer, decodes it into an operation and its query and returns the JSON
// encoded response.
func (m *Manager) Run(ctx context.Context, buf []byte) ([]byte, error) {
	op, queryBytes := litetable.Decode(buf)
	if op == litetable.OperationUnknown {
		return nil, errUnknownOperation
	}
	if len(queryBytes) == 0 {
		return nil, errEmptyQuery
	}
	query := string(queryBytes)

	var (
		result any
		err    error
	)
	switch op {
	case litetable.OperationRead:
		var rows []*litetable.Row
		if rows, err = m.Read(ctx, query); rows == nil {
			rows = []*litetable.Row{}
		}
		result = rows
	case litetable.OperationWrite:
		result, err = m.Write(query)
	case litetable.OperationDelete:
		var n int
		n, err = m.Delete(query)
		result = map[string]int{"deleted": n}
	case litetable.OperationCreate:
		var families []string
		families, err = m.Create(query)
		result = map[string][]string{"families": families}
	}
	if err != nil {
		log.Debug().Err(err).Str("operation", op.String()).Msg("operation failed")
		return nil, err
	}

	response, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s response: %w", op, err)
	}
	return response, nil
}
