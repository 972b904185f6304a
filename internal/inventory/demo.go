package inventory

import "time"

// DemoCars returns a small fixed lot used by the in-memory development setup.
func DemoCars(now time.Time) []Car {
	now = now.UTC()
	return []Car{
		{
			ID: "3f1c6a1e-5d55-4d0b-9b8e-0c6f1a0e6a01", StockNumber: "A1001", VIN: "1HGCM82633A004352",
			Make: "Honda", Model: "Civic", Year: 2022, Trim: "EX", BodyType: "sedan", FuelType: "petrol",
			Transmission: "automatic", Mileage: 18000, Price: 2149900, ExteriorColor: "blue",
			Condition: ConditionUsed, Status: StatusAvailable,
			Features:  []string{"Apple CarPlay", "Backup Camera", "Lane Assist"},
			CreatedAt: now.Add(-72 * time.Hour), UpdatedAt: now.Add(-72 * time.Hour),
		},
		{
			ID: "3f1c6a1e-5d55-4d0b-9b8e-0c6f1a0e6a02", StockNumber: "A1002", VIN: "5YJ3E1EA7KF317000",
			Make: "Tesla", Model: "Model 3", Year: 2024, Trim: "Long Range", BodyType: "sedan", FuelType: "electric",
			Transmission: "automatic", Mileage: 10, Price: 4299000, ExteriorColor: "white",
			Condition: ConditionNew, Status: StatusAvailable,
			Features:  []string{"Autopilot", "Heated Seats", "Panoramic Roof"},
			CreatedAt: now.Add(-48 * time.Hour), UpdatedAt: now.Add(-48 * time.Hour),
		},
		{
			ID: "3f1c6a1e-5d55-4d0b-9b8e-0c6f1a0e6a03", StockNumber: "A1003", VIN: "1FTFW1E50JFB00001",
			Make: "Ford", Model: "F-150", Year: 2019, Trim: "XLT", BodyType: "truck", FuelType: "petrol",
			Transmission: "automatic", Mileage: 64000, Price: 2899500, ExteriorColor: "black",
			Condition: ConditionCertified, Status: StatusReserved,
			Features:  []string{"Backup Camera", "Tow Package"},
			CreatedAt: now.Add(-24 * time.Hour), UpdatedAt: now.Add(-24 * time.Hour),
		},
		{
			ID: "3f1c6a1e-5d55-4d0b-9b8e-0c6f1a0e6a04", StockNumber: "A1004", VIN: "JTDKN3DU0A0000001",
			Make: "Toyota", Model: "Prius", Year: 2017, BodyType: "hatchback", FuelType: "hybrid",
			Transmission: "cvt", Mileage: 92000, Price: 1450000, ExteriorColor: "silver",
			Condition: ConditionUsed, Status: StatusSold,
			Features:  []string{"Heated Seats"},
			CreatedAt: now.Add(-12 * time.Hour), UpdatedAt: now.Add(-12 * time.Hour),
		},
	}
}
