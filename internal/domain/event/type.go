package event

// Type identifies the type of domain event
type Type string

const (
	TypeContractValidated  Type = "contract.validated"
	TypeContractExpired    Type = "contract.expired"
	TypeShiftBulkCancelled Type = "shift.bulk_cancelled"
)

// String returns the string representation of the event type
func (t Type) String() string {
	return string(t)
}

// IsValid checks if the event type is one of the defined constants
func (t Type) IsValid() bool {
	switch t {
	case TypeContractValidated, TypeContractExpired, TypeShiftBulkCancelled:
		return true
	default:
		return false
	}
}
