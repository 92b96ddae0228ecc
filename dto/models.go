package dto

// Field names used as keys in InvoiceRecord.Sources.
const (
	FieldMUC        = "injected_muc"
	FieldOUC        = "injected_ouc"
	FieldOffPeak    = "injected_off_peak"
	FieldIdentifier = "consumer_unit"
)

// InvoiceRecord is one resolved field set per successfully processed bill.
// Monetary fields are pointers: nil means the field stayed unresolved after
// every strategy, which is valid output (no injected-energy discount on that
// bill).
type InvoiceRecord struct {
	Path            string   `json:"path"`
	Period          string   `json:"period,omitempty"`
	ConsumerUnit    string   `json:"consumer_unit,omitempty"`
	Classification  string   `json:"classification,omitempty"`
	ServiceType     string   `json:"service_type,omitempty"`
	Injected        bool     `json:"injected"`
	InjectedMUC     *float64 `json:"injected_muc,omitempty"`
	InjectedOUC     *float64 `json:"injected_ouc,omitempty"`
	InjectedOffPeak *float64 `json:"injected_off_peak,omitempty"`
	VoltageMin      *float64 `json:"voltage_min,omitempty"`
	VoltageMax      *float64 `json:"voltage_max,omitempty"`

	// Sources maps a field name to the strategy that resolved it
	// (column, proximity, layout, correction).
	Sources map[string]string `json:"sources,omitempty"`
}
