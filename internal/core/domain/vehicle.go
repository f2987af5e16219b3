package domain

// Field bounds enforced before any vehicle is written.
const (
	VehicleNameMaxLen  = 155
	VehicleBrandMaxLen = 100
	VehicleMinYear     = 1950
)

// Vehicle is a catalogued vehicle record. ID is assigned by storage.
type Vehicle struct {
	ID    int64  `json:"id"`
	Name  string `json:"nome"`
	Brand string `json:"marca"`
	Year  int    `json:"ano"`
}

// VehicleInput carries the writable fields of a vehicle for create and update.
type VehicleInput struct {
	Name  string
	Brand string
	Year  int
}

// Apply copies the input onto v, leaving the ID untouched.
func (in VehicleInput) Apply(v *Vehicle) {
	v.Name = in.Name
	v.Brand = in.Brand
	v.Year = in.Year
}
