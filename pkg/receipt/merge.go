package receipt

// Merge fills the empty fields of primary with values from secondary and
// returns primary. A populated primary field is never overwritten even when
// secondary disagrees: primary comes from the preferred first pass. Amount is
// compound; its raw string, parsed value and unit move together so a raw
// string is never paired with a value derived from different text.
func Merge(primary, secondary *Result) *Result {
	if primary.AmountValue == nil && secondary.AmountValue != nil {
		primary.Amount = secondary.Amount
		primary.AmountValue = secondary.AmountValue
		primary.AmountType = secondary.AmountType
	}
	if primary.Date == "" {
		primary.Date = secondary.Date
	}
	if primary.Operation == "" {
		primary.Operation = secondary.Operation
	}
	if primary.Identification == "" {
		primary.Identification = secondary.Identification
	}
	if primary.Origin == "" {
		primary.Origin = secondary.Origin
	}
	if primary.Destination == "" {
		primary.Destination = secondary.Destination
	}
	if primary.BankCode == "" {
		primary.BankCode = secondary.BankCode
	}
	if primary.BankName == "" {
		primary.BankName = secondary.BankName
	}
	if primary.Concept == "" {
		primary.Concept = secondary.Concept
	}
	return primary
}
