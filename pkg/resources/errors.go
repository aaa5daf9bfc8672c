package resources

import "fmt"

// InvalidConnectivityError is returned during pre-sync validation when a
// segment references a vertex index outside the mesh's declared bounds
type InvalidConnectivityError struct {
	Index     int64
	NodeCount int
	Negative  bool
}

// Error implements the error interface
func (e *InvalidConnectivityError) Error() string {
	if e.Negative {
		return fmt.Sprintf("segments: index %d is negative", e.Index)
	}
	return fmt.Sprintf("segments: index %d out of range: mesh has %d vertices", e.Index, e.NodeCount)
}

// DataLengthMismatchError is returned when a bound data array's length
// disagrees with the mesh count dictated by its location tag
type DataLengthMismatchError struct {
	Index    int
	Location string
	Actual   int
	Expected int
}

// Error implements the error interface
func (e *DataLengthMismatchError) Error() string {
	return fmt.Sprintf("data[%d]: length %d does not match %s length %d",
		e.Index, e.Actual, e.Location, e.Expected)
}
