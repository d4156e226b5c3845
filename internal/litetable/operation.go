package litetable

import "bytes"

// Operation is the verb at the head of a text command.
type Operation int

const (
	OperationUnknown Operation = iota
	OperationRead
	OperationWrite
	OperationDelete
	OperationCreate
)

var verbs = []struct {
	prefix []byte
	op     Operation
}{
	{[]byte("READ "), OperationRead},
	{[]byte("WRITE "), OperationWrite},
	{[]byte("DELETE "), OperationDelete},
	{[]byte("CREATE "), OperationCreate},
}

func (o Operation) String() string {
	switch o {
	case OperationRead:
		return "READ"
	case OperationWrite:
		return "WRITE"
	case OperationDelete:
		return "DELETE"
	case OperationCreate:
		return "CREATE"
	}
	return "UNKNOWN"
}

// Decode splits a command such as "READ family=cf key=r1" into its operation and the
// query that follows the verb.
func Decode(buf []byte) (Operation, []byte) {
	for _, v := range verbs {
		if bytes.HasPrefix(buf, v.prefix) {
			return v.op, buf[len(v.prefix):]
		}
	}
	return OperationUnknown, nil
}
