// Package transaction implements the text wire format of the custody
// ledger. Transactions and queries are '='-separated fields:
//
//	BLOCK=<device-id>=<site>=<timestamp>=<destruct>=<signature-hex>
//	ALLOCATE=<site>=<timestamp>
//	HISTORY=<device-id>
//	NUMBER
//
// Timestamps use the ledger format (see models.FormatTimestamp). Because
// '=' is the field separator, site names must not contain it.
package transaction

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/itemtrace/custody-backend-go/internal/models"
)

// Transaction type tags as they appear on the wire.
const (
	TagBlock    = "BLOCK"
	TagAllocate = "ALLOCATE"
	TagHistory  = "HISTORY"
	TagNumber   = "NUMBER"
)

const sep = "="

var (
	// ErrMalformed reports input that does not match any known
	// transaction or query shape.
	ErrMalformed = errors.New("malformed transaction")
)

// Block is a parsed BLOCK transaction.
type Block struct {
	DeviceID  int64
	Site      string
	Timestamp string // ledger timestamp format, validated on parse
	Destruct  bool
	Signature string // hex
}

// Allocate is a parsed ALLOCATE transaction. Site and timestamp exist to
// make two allocations textually distinct; the site doubles as the
// device's origin.
type Allocate struct {
	Site      string
	Timestamp string
}

// String renders b back into wire form.
func (b Block) String() string {
	return strings.Join([]string{
		TagBlock,
		strconv.FormatInt(b.DeviceID, 10),
		b.Site,
		b.Timestamp,
		strconv.FormatBool(b.Destruct),
		b.Signature,
	}, sep)
}

// String renders a back into wire form.
func (a Allocate) String() string {
	return strings.Join([]string{TagAllocate, a.Site, a.Timestamp}, sep)
}

// Parse decodes a wire-format transaction. The returned value is either a
// Block or an Allocate.
func Parse(raw string) (interface{}, error) {
	parts := strings.Split(raw, sep)

	switch parts[0] {
	case TagBlock:
		if len(parts) != 6 {
			return nil, fmt.Errorf("%w: BLOCK wants 6 fields, got %d", ErrMalformed, len(parts))
		}
		id, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil || id < 0 {
			return nil, fmt.Errorf("%w: invalid device id %q", ErrMalformed, parts[1])
		}
		if parts[2] == "" {
			return nil, fmt.Errorf("%w: empty site", ErrMalformed)
		}
		if _, err := models.ParseTimestamp(parts[3]); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		destruct, err := strconv.ParseBool(parts[4])
		if err != nil {
			return nil, fmt.Errorf("%w: invalid destruct flag %q", ErrMalformed, parts[4])
		}
		if parts[5] == "" {
			return nil, fmt.Errorf("%w: empty signature", ErrMalformed)
		}
		return Block{
			DeviceID:  id,
			Site:      parts[2],
			Timestamp: parts[3],
			Destruct:  destruct,
			Signature: parts[5],
		}, nil

	case TagAllocate:
		if len(parts) != 3 {
			return nil, fmt.Errorf("%w: ALLOCATE wants 3 fields, got %d", ErrMalformed, len(parts))
		}
		if parts[1] == "" {
			return nil, fmt.Errorf("%w: empty site", ErrMalformed)
		}
		if _, err := models.ParseTimestamp(parts[2]); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		return Allocate{Site: parts[1], Timestamp: parts[2]}, nil
	}

	return nil, fmt.Errorf("%w: unknown tag %q", ErrMalformed, parts[0])
}

// Query is a parsed ledger query.
type Query struct {
	Tag      string // TagHistory or TagNumber
	DeviceID int64  // set for HISTORY
}

// ParseQuery decodes a wire-format query (HISTORY=<id> or NUMBER).
func ParseQuery(raw string) (Query, error) {
	if raw == TagNumber {
		return Query{Tag: TagNumber}, nil
	}

	parts := strings.Split(raw, sep)
	if len(parts) == 2 && parts[0] == TagHistory {
		id, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil || id < 0 {
			return Query{}, fmt.Errorf("%w: invalid device id %q", ErrMalformed, parts[1])
		}
		return Query{Tag: TagHistory, DeviceID: id}, nil
	}

	return Query{}, fmt.Errorf("%w: unknown query %q", ErrMalformed, raw)
}

// EncodeHistory serializes custody entries as alternating site and
// timestamp fields: site1=ts1=site2=ts2=... An empty history encodes as
// the empty string.
func EncodeHistory(entries []models.CustodyEntry) string {
	fields := make([]string, 0, len(entries)*2)
	for _, e := range entries {
		fields = append(fields, e.Site, models.FormatTimestamp(e.Timestamp))
	}
	return strings.Join(fields, sep)
}

// DecodeHistory parses the EncodeHistory wire form back into entries.
func DecodeHistory(raw string) ([]models.CustodyEntry, error) {
	if raw == "" {
		return nil, nil
	}

	fields := strings.Split(raw, sep)
	if len(fields)%2 != 0 {
		return nil, fmt.Errorf("%w: odd field count %d", ErrMalformed, len(fields))
	}

	entries := make([]models.CustodyEntry, 0, len(fields)/2)
	for i := 0; i < len(fields); i += 2 {
		ts, err := models.ParseTimestamp(fields[i+1])
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		entries = append(entries, models.CustodyEntry{Site: fields[i], Timestamp: ts})
	}
	return entries, nil
}
