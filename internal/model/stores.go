package model

// Store is one physical store. The directory is reference data compiled
// into the binary; it is not persisted anywhere.
type Store struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Address      string       `json:"address"`
	PostalCode   string       `json:"postal_code"`
	City         string       `json:"city"`
	OpeningHours OpeningHours `json:"opening_hours"`
	Phone        string       `json:"phone,omitempty"`
	Email        string       `json:"email,omitempty"`
}

// OpeningHours holds display-ready opening hour lines. Weekends is empty
// for stores that keep the same hours all week.
type OpeningHours struct {
	Weekdays string `json:"weekdays"`
	Weekends string `json:"weekends,omitempty"`
}

// Stores lists every Yalla store.
var Stores = []Store{
	{
		ID:         "malmi",
		Name:       "Yalla Malmi",
		Address:    "Hietakummuntie 19",
		PostalCode: "00700",
		City:       "Helsinki",
		OpeningHours: OpeningHours{
			Weekdays: "Ma-Pe 9:00-20:00",
			Weekends: "La-Su 10:00-19:00",
		},
		Email: "info@yalla.fi",
	},
	{
		ID:         "myyrmaki",
		Name:       "Yalla Myyrmäki",
		Address:    "Liesitori 1",
		PostalCode: "01600",
		City:       "Vantaa",
		OpeningHours: OpeningHours{
			Weekdays: "Ma-Pe 9:00-20:00",
			Weekends: "La-Su 10:00-19:00",
		},
		Email: "info@yalla.fi",
	},
	{
		ID:         "koivukyla",
		Name:       "Yalla Koivukylä",
		Address:    "Hakopolku 2",
		PostalCode: "01360",
		City:       "Vantaa",
		OpeningHours: OpeningHours{
			Weekdays: "Ma-Pe 9:00-20:00",
			Weekends: "La-Su 10:00-19:00",
		},
		Email: "info@yalla.fi",
	},
	{
		ID:         "tikkurila",
		Name:       "Yalla Tikkurila",
		Address:    "Peltolantie 5",
		PostalCode: "01300",
		City:       "Vantaa",
		OpeningHours: OpeningHours{
			Weekdays: "Ma-Su 10:00-19:00",
		},
		Phone: "044 236 7262",
		Email: "tikkurila@yalla.fi",
	},
	{
		ID:         "vuosaari",
		Name:       "Yalla Vuosaari",
		Address:    "Vuotie 45",
		PostalCode: "00980",
		City:       "Helsinki",
		OpeningHours: OpeningHours{
			Weekdays: "Ma-Su 10:00-21:00",
		},
		Phone: "041 312 2479",
		Email: "vuosaari@yalla.fi",
	},
}
