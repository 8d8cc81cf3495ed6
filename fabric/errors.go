package fabric

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by the host layer. All are returned to the immediate
// caller, never swallowed; only the orchestration layer decides between
// aborting the job and continuing, and for manycore jobs the correct choice
// is abort-and-report.
var (
	// ErrSymbolNotFound reports a variable name absent from a program
	// image's symbol table. Resolution failure is never defaulted to
	// address zero.
	ErrSymbolNotFound = errors.New("symbol not found")

	// ErrInvalidTarget reports a coordinate that must not be used: the
	// reserved I/O row, or a coordinate outside the mesh. This is a
	// caller programming error, not a runtime condition to retry.
	ErrInvalidTarget = errors.New("invalid target coordinate")

	// ErrTransferFailed reports a failed packet inside a memory copy.
	// The whole transfer is aborted; the transport offers no
	// partial-retry primitive.
	ErrTransferFailed = errors.New("transfer failed")

	// ErrTransportUnavailable reports that the driver has no device
	// registered or the transport could not be initialized.
	ErrTransportUnavailable = errors.New("transport unavailable")

	// ErrCompletionTimeout reports tiles that never produced a
	// completion token within the wait deadline.
	ErrCompletionTimeout = errors.New("completion timeout")

	// ErrTileState reports a lifecycle call issued out of order, such as
	// unfreezing a tile that is not loaded. The underlying transport
	// leaves such calls undefined, so the driver rejects them instead.
	ErrTileState = errors.New("invalid tile state")

	// ErrUnexpectedToken reports a completion token from a tile outside
	// the waited group, or a second token from the same tile.
	ErrUnexpectedToken = errors.New("unexpected completion token")
)

// A TransferError describes the first packet that failed inside a memory
// copy. Remaining packets of the transfer are not applied.
type TransferError struct {
	Coord Coordinate
	Addr  Eva
	Op    Op
}

func (e *TransferError) Error() string {
	kind := "read from"
	if e.Op == OpWrite {
		kind = "write to"
	}

	return fmt.Sprintf("%s tile %s failed at address %s: %v",
		kind, e.Coord, e.Addr, ErrTransferFailed)
}

// Unwrap makes the error match ErrTransferFailed.
func (e *TransferError) Unwrap() error {
	return ErrTransferFailed
}
