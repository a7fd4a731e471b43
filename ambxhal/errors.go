package ambxhal

import "errors"

var (
	ErrorNoDevice     = errors.New("No amBX device found")
	ErrorClaimFailed  = errors.New("Could not claim the device interface")
	ErrorNotReady     = errors.New("Device is not initialized")
	ErrorInvalidZone  = errors.New("Unknown lighting zone")
	ErrorCountInvalid = errors.New("Zone and color counts do not match")
)
