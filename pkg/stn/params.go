package stn

import (
	"sort"

	"github.com/waterscope/floodwatch/pkg/errs"
)

// DataType identifies one of the four STN record collections.
type DataType int

const (
	Instruments DataType = iota
	Peaks
	HWMs
	Sites
)

var dataTypeNames = map[DataType]string{
	Instruments: "instruments",
	Peaks:       "peaks",
	HWMs:        "hwms",
	Sites:       "sites",
}

func (d DataType) String() string { return dataTypeNames[d] }

// DataTypes returns all data types in declaration order.
func DataTypes() []DataType {
	return []DataType{Instruments, Peaks, HWMs, Sites}
}

// ParseDataType maps a string to its DataType, or returns an
// InputValueError listing the valid names.
func ParseDataType(s string) (DataType, error) {
	for dt, name := range dataTypeNames {
		if name == s {
			return dt, nil
		}
	}
	valid := make([]string, 0, len(dataTypeNames))
	for _, name := range dataTypeNames {
		valid = append(valid, name)
	}
	return 0, &errs.InputValueError{Name: "data_type", Valid: valid}
}

// Accepted query-parameter keys per data type, from the upstream filtered
// endpoints documentation.
var allowedQueryParams = map[DataType]map[string]bool{
	Instruments: {
		"Event":               true,
		"EventType":           true,
		"EventStatus":         true,
		"States":              true,
		"County":              true,
		"CurrentStatus":       true,
		"CollectionCondition": true,
		"SensorType":          true,
		"DeploymentType":      true,
	},
	Peaks: {
		"Event":       true,
		"EventType":   true,
		"EventStatus": true,
		"States":      true,
		"County":      true,
		"StartDate":   true,
		"EndDate":     true,
	},
	HWMs: {
		"Event":       true,
		"EventType":   true,
		"EventStatus": true,
		"States":      true,
		"County":      true,
		"StartDate":   true,
		"EndDate":     true,
	},
	Sites: {
		"Event":            true,
		"State":            true,
		"SensorType":       true,
		"NetworkName":      true,
		"OPDefined":        true,
		"HWMOnly":          true,
		"HWMSurveyed":      true,
		"SensorOnly":       true,
		"RDGOnly":          true,
		"HousingTypeOne":   true,
		"HousingTypeSeven": true,
	},
}

// AllowedParams returns the sorted accepted query-parameter keys for a data type.
func AllowedParams(dt DataType) []string {
	keys := make([]string, 0, len(allowedQueryParams[dt]))
	for k := range allowedQueryParams[dt] {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ValidateParams checks that every supplied key is accepted for the data
// type. Validation is all-or-nothing: on any unknown key it returns an
// InputValueError naming the category and the full allowed set, and the
// caller must not issue a request.
func ValidateParams(dt DataType, params map[string]string) error {
	for k := range params {
		if !allowedQueryParams[dt][k] {
			return &errs.InputValueError{Name: "query_param", Valid: AllowedParams(dt)}
		}
	}
	return nil
}
