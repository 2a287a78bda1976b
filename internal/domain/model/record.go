// Package model contains domain models passed between layers.
package model

// ProductType is the quality variant of a manufactured unit.
type ProductType string

// Known product types in the sensor stream.
const (
	ProductLow    ProductType = "L"
	ProductMedium ProductType = "M"
	ProductHigh   ProductType = "H"
)

// UnitRecord is one manufactured unit's sensor snapshot. Records are
// immutable once created: producers build them, every later stage reads
// them by value.
type UnitRecord struct {
	ID          uint64      // monotonic sequence number assigned by the source
	Product     ProductType // quality variant
	AirTempK    float64     // air temperature, Kelvin
	ProcTempK   float64     // process temperature, Kelvin
	RotSpeedRPM float64     // rotational speed, rpm
	TorqueNm    float64     // torque, Nm
	ToolWearMin float64     // cumulative tool wear, minutes
}
