package reply

import "github.com/dbgateway/mysqlwire/pkg/proto"

const (
	trackSystemVariables            = 0
	trackSchema                     = 1
	trackStateChange                = 2
	trackGTIDs                      = 3
	trackTransactionCharacteristics = 4
	trackTransactionType            = 5
)

// extractSessionState walks an OK packet's session-state tracking block
// (the bytes after the lenenc total-size prefix) and applies every entry
// it recognizes to r. Unknown entry types are skipped by their declared
// size; a malformed remaining length stops extraction without touching
// fields already applied, so earlier entries in the same block are never
// lost to a later one's corruption.
func (r *Reply) extractSessionState(block []byte) {
	for len(block) > 0 {
		typ, n, ok := proto.ReadLenencInt(block)
		if !ok {
			return
		}
		block = block[n:]
		size, n, ok := proto.ReadLenencInt(block)
		if !ok || uint64(n) > uint64(len(block)) || size > uint64(len(block)-n) {
			return
		}
		entry := block[n : n+int(size)]
		block = block[n+int(size):]

		switch typ {
		case trackSystemVariables:
			name, nn, ok := proto.ReadLenencStr(entry)
			if !ok {
				continue
			}
			value, _, ok := proto.ReadLenencStr(entry[nn:])
			if !ok {
				continue
			}
			if r.Vars == nil {
				r.Vars = make(map[string]string)
			}
			r.Vars[string(name)] = string(value)
		case trackGTIDs:
			_, nn, ok := proto.ReadLenencInt(entry)
			if !ok {
				continue
			}
			gtid, _, ok := proto.ReadLenencStr(entry[nn:])
			if ok {
				r.LastGTID = string(gtid)
			}
		case trackTransactionCharacteristics:
			v, _, ok := proto.ReadLenencStr(entry)
			if ok {
				r.TrxCharacteristics = string(v)
			}
		case trackTransactionType:
			v, _, ok := proto.ReadLenencStr(entry)
			if ok {
				r.TrxState = ParseTrxState(string(v))
			}
		case trackSchema, trackStateChange:
			// Recognized but not surfaced on Reply today.
		}
	}
}
