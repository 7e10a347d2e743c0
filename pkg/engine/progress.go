package engine

import "fmt"

// ProgressKind identifies the variant of a Progress event
type ProgressKind int

const (
	// ProgressSync reports chain sync progress, Value is the tip timestamp
	ProgressSync ProgressKind = iota + 1

	// ProgressScan reports wallet rescan progress, Value is the ETA in seconds
	ProgressScan

	// ProgressDone terminates the progress stream
	ProgressDone
)

// String returns the name of the kind
func (k ProgressKind) String() string {
	switch k {
	case ProgressSync:
		return "sync"
	case ProgressScan:
		return "scan"
	case ProgressDone:
		return "done"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// Progress is a sync or scan progress notification. Done carries no payload.
type Progress struct {
	Kind ProgressKind

	// Fraction is the completed fraction in [0,1]
	Fraction float32

	// Value is the chain tip (unix seconds) for Sync and the ETA (seconds) for Scan
	Value uint64
}

// SyncProgress returns a chain sync event
func SyncProgress(fraction float32, tip uint64) Progress {
	return Progress{Kind: ProgressSync, Fraction: fraction, Value: tip}
}

// ScanProgress returns a wallet scan event
func ScanProgress(fraction float32, eta uint64) Progress {
	return Progress{Kind: ProgressScan, Fraction: fraction, Value: eta}
}

// Done returns the end-of-stream sentinel
func Done() Progress {
	return Progress{Kind: ProgressDone}
}

// String implements fmt.Stringer
func (p Progress) String() string {
	switch p.Kind {
	case ProgressSync:
		return fmt.Sprintf("sync(%.2f%%, tip=%d)", p.Fraction*100, p.Value)
	case ProgressScan:
		return fmt.Sprintf("scan(%.2f%%, eta=%ds)", p.Fraction*100, p.Value)
	default:
		return p.Kind.String()
	}
}
