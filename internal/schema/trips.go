package schema

// tripColumns follows the column order of the published yellow taxi CSV files.
var tripColumns = []Column{
	{"VendorID", Int64},
	{"tpep_pickup_datetime", Timestamp},
	{"tpep_dropoff_datetime", Timestamp},
	{"passenger_count", Int64},
	{"trip_distance", Float64},
	{"RatecodeID", Int64},
	{"store_and_fwd_flag", Text},
	{"PULocationID", Int64},
	{"DOLocationID", Int64},
	{"payment_type", Int64},
	{"fare_amount", Float64},
	{"extra", Float64},
	{"mta_tax", Float64},
	{"tip_amount", Float64},
	{"tolls_amount", Float64},
	{"improvement_surcharge", Float64},
	{"total_amount", Float64},
	{"congestion_surcharge", Float64},
}

var trips = mustNew(tripColumns...)

// Trips returns the schema of the yellow taxi trip extracts.
// The returned value is shared and must not be modified.
func Trips() *Schema {
	return trips
}

func mustNew(columns ...Column) *Schema {
	s, err := New(columns...)
	if err != nil {
		panic(err)
	}
	return s
}
