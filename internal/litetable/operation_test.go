package litetable

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input     string
		wantOp    Operation
		wantQuery string
	}{
		"read":             {input: "READ family=cf key=r1", wantOp: OperationRead, wantQuery: "family=cf key=r1"},
		"write":            {input: "WRITE family=cf", wantOp: OperationWrite, wantQuery: "family=cf"},
		"delete":           {input: "DELETE key=r1", wantOp: OperationDelete, wantQuery: "key=r1"},
		"create":           {input: "CREATE family=cf", wantOp: OperationCreate, wantQuery: "family=cf"},
		"empty":            {input: "", wantOp: OperationUnknown},
		"lower case verb":  {input: "read family=cf", wantOp: OperationUnknown},
		"verb without gap": {input: "READfamily=cf", wantOp: OperationUnknown},
		"unknown verb":     {input: "SCAN family=cf", wantOp: OperationUnknown},
		"verb only":        {input: "READ ", wantOp: OperationRead, wantQuery: ""},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			req := require.New(t)
			op, query := Decode([]byte(tc.input))
			req.Equal(tc.wantOp, op)
			req.Equal(tc.wantQuery, string(query))
		})
	}
}

func TestOperation_String(t *testing.T) {
	t.Parallel()
	require.Equal(t, "READ", OperationRead.String())
	require.Equal(t, "UNKNOWN", Operation(42).String())
}
