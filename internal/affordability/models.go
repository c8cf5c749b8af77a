package affordability

import "fmt"

// The two embedded generations share one fitted coefficient table; what
// changed between survey rounds is the questionnaire wording and the
// furnished-type domain, so they differ only in schema.
var builtinModels = map[string]func() modelFile{
	"2024-excel": excelModel,
	"2023-pilot": pilotModel,
}

const smartSewaFeature = "Adakah anda mengetahui terdapat skim mampu sewa di Malaysia? (contoh: SMART sewa)(1)"

// defaultCoefficients returns the fitted logistic weights. Feature names
// keep the Malay column headers of the published regression output; order
// matches the publication so breakdown tables read the same way.
func defaultCoefficients() []Coefficient {
	return []Coefficient{
		{Name: "Umur", Weight: -0.006},
		{Name: "Jantina ketua keluarga(1)", Weight: 0.04},
		{Name: "Warganegara(1)", Weight: -2.49},

		{Name: "Bangsa(1)", Weight: -1.222},
		{Name: "Bangsa(2)", Weight: -1.693},
		{Name: "Bangsa(3)", Weight: 17.641},
		{Name: "Bangsa(4)", Weight: 1.828},

		{Name: "Agama(1)", Weight: -0.291},
		{Name: "Agama(2)", Weight: -15.98},
		{Name: "Agama(3)", Weight: 0.175},

		{Name: "Status Perkahwinan(1)", Weight: -25.465},
		{Name: "Status Perkahwinan(2)", Weight: 1.468},
		{Name: "Status Perkahwinan(3)", Weight: -0.114},
		{Name: "Status Perkahwinan(4)", Weight: 20.673},

		{Name: "Tahap Pendidikan(1)", Weight: -0.292},
		{Name: "Tahap Pendidikan(2)", Weight: -0.27},
		{Name: "Tahap Pendidikan(3)", Weight: -0.371},
		{Name: "Tahap Pendidikan(4)", Weight: -22.714},
		{Name: "Tahap Pendidikan(5)", Weight: 20.045},
		{Name: "Tahap Pendidikan(6)", Weight: -1.436},
		{Name: "Tahap Pendidikan(7)", Weight: 18.556},
		{Name: "Tahap Pendidikan(8)", Weight: 30.823},

		{Name: "Pekerjaan(1)", Weight: -19.721},
		{Name: "Pekerjaan(2)", Weight: -20.39},
		{Name: "Pekerjaan(3)", Weight: -18.736},
		{Name: "Pekerjaan(4)", Weight: -20.434},
		{Name: "Pekerjaan(5)", Weight: -35.097},
		{Name: "Pekerjaan(6)", Weight: 0.085},

		{Name: "Bilangan isi rumah(1)", Weight: -0.392},
		{Name: "Bilangan isi rumah(2)", Weight: -0.398},
		{Name: "Bilangan isi rumah(3)", Weight: -0.012},
		{Name: "Bilangan isi rumah(4)", Weight: 0.158},

		{Name: "Bilangan tanggungan(1)", Weight: 0.729},
		{Name: "Bilangan tanggungan(2)", Weight: -1.316},
		{Name: "Bilangan tanggungan(3)", Weight: 20.145},
		{Name: "Bilangan tanggungan(4)", Weight: 17.796},

		{Name: "Jenis rumah sewa(1)", Weight: 0.307},
		{Name: "Jenis rumah sewa(2)", Weight: -0.493},
		{Name: "Jenis rumah sewa(3)", Weight: 0.579},
		{Name: "Jenis rumah sewa(4)", Weight: -0.331},
		{Name: "Jenis rumah sewa(5)", Weight: 18.194},

		{Name: "Jenis kelengkapan perabot(1)", Weight: -0.46},

		{Name: "Bayaran deposit(1)", Weight: 1.511},
		{Name: "Bayaran deposit(2)", Weight: 0.841},
		{Name: "Bayaran deposit(3)", Weight: 1.496},
		{Name: "Bayaran deposit(4)", Weight: 1.975},
		{Name: "Bayaran deposit(5)", Weight: -0.487},
		{Name: "Bayaran deposit(6)", Weight: 18.336},

		{Name: "Berapa lama anda telah menyewa rumah(1)", Weight: -17.564},
		{Name: "Berapa lama anda telah menyewa rumah(2)", Weight: -18.419},
		{Name: "Berapa lama anda telah menyewa rumah(3)", Weight: -17.135},
		{Name: "Berapa lama anda telah menyewa rumah(4)", Weight: -18.69},

		{Name: smartSewaFeature, Weight: 0.531},

		{Name: ConstantFeature, Weight: 38.956},
	}
}

// seqDummies maps option indexes from..to onto "prefix(1)".."prefix(n)".
func seqDummies(prefix string, from, to int) map[int]string {
	d := make(map[int]string, to-from+1)
	for k := from; k <= to; k++ {
		d[k] = fmt.Sprintf("%s(%d)", prefix, k)
	}
	return d
}

// excelModel is the current generation: English questionnaire wording as
// published with the Excel coefficient sheet.
func excelModel() modelFile {
	return modelFile{
		Name: "2024-excel",
		Schema: &EncodingSchema{
			Name:       "2024-excel",
			AgeField:   "age",
			AgeFeature: "Umur",
			AgeMin:     15,
			AgeMax:     100,
			Variables: []Variable{
				{
					Name:    "Gender",
					Options: []string{"Man", "Woman"},
					Dummies: map[int]string{1: "Jantina ketua keluarga(1)"},
				},
				{
					Name:    "Nationality",
					Options: []string{"Malaysian citizen", "Non-Malaysian citizen"},
					Dummies: map[int]string{1: "Warganegara(1)"},
				},
				{
					Name:    "Ethnicity",
					Options: []string{"Malay", "Chinese", "Indian", "Sabah", "Sarawak"},
					Dummies: seqDummies("Bangsa", 1, 4),
				},
				{
					Name:    "Religion",
					Options: []string{"Islam", "Buddhism", "Hinduism", "Others"},
					Dummies: seqDummies("Agama", 1, 3),
				},
				{
					Name:    "Marital Status",
					Options: []string{"Single", "Married", "Widowed", "Divorced", "Separated"},
					Dummies: seqDummies("Status Perkahwinan", 1, 4),
				},
				{
					Name: "Education Level",
					Options: []string{
						"No certificate",
						"UPSR",
						"PT3",
						"SPM",
						"STPM",
						"Certificate/TVET",
						"Certificate (Polytechnic/University)",
						"Diploma",
						"Bachelor's Degree",
					},
					Dummies: seqDummies("Tahap Pendidikan", 1, 8),
				},
				{
					Name: "Occupation",
					Options: []string{
						"Unemployed",
						"Government employee",
						"Private employee",
						"Self-employed",
						"Homemaker",
						"Student",
						"Government retiree",
					},
					Dummies: seqDummies("Pekerjaan", 1, 6),
				},
				{
					Name:    "Household Size",
					Options: []string{"1 person", "2 people", "3–4 people", "5–6 people", "7 people or more"},
					Dummies: seqDummies("Bilangan isi rumah", 1, 4),
				},
				{
					Name:    "Number of Dependents",
					Options: []string{"None", "1–2 people", "3–4 people", "5–6 people", "7 people or more"},
					Dummies: seqDummies("Bilangan tanggungan", 1, 4),
				},
				{
					// The fitted model has dummies for the first five
					// non-baseline levels only; the last two encode as base.
					Name: "Type of Rental Housing",
					Options: []string{
						"House",
						"Room",
						"Flat",
						"Apartment",
						"Condominium",
						"Terrace House (Single storey)",
						"Terrace House (Double storey)",
						"One-unit house",
					},
					Dummies: seqDummies("Jenis rumah sewa", 1, 5),
				},
				{
					Name:    "Furnished Type",
					Options: []string{"None", "Furnished"},
					Dummies: map[int]string{1: "Jenis kelengkapan perabot(1)"},
				},
				{
					Name: "Deposit",
					Options: []string{
						"No deposit",
						"1 + 1",
						"2 + 1",
						"3 + 1",
						"1 + 1 + utility",
						"2 + 1 + utility",
						"3 + 1 + utility",
					},
					Dummies: seqDummies("Bayaran deposit", 1, 6),
				},
				{
					Name:    "Total years renting",
					Options: []string{"Less than 6 months", "Less than 1 year", "1–2 years", "3–5 years", "6–10 years"},
					Dummies: seqDummies("Berapa lama anda telah menyewa rumah", 1, 4),
				},
				{
					Name:    "Known SMART SEWA",
					Options: []string{"Yes", "No"},
					Dummies: map[int]string{1: smartSewaFeature},
				},
			},
		},
		Coefficients: defaultCoefficients(),
	}
}

// pilotModel is the earlier pilot-round questionnaire: mixed Malay/English
// wording and a seven-level furnished-type question that still collapses
// onto the model's single furnished dummy.
func pilotModel() modelFile {
	return modelFile{
		Name: "2023-pilot",
		Schema: &EncodingSchema{
			Name:       "2023-pilot",
			AgeField:   "age",
			AgeFeature: "Umur",
			AgeMin:     15,
			AgeMax:     100,
			Variables: []Variable{
				{
					Name:    "Gender",
					Options: []string{"Man", "Woman"},
					Dummies: map[int]string{1: "Jantina ketua keluarga(1)"},
				},
				{
					Name:    "Nationality",
					Options: []string{"Malaysian citizen", "Non-Malaysian citizen"},
					Dummies: map[int]string{1: "Warganegara(1)"},
				},
				{
					Name:    "Ethnicity",
					Options: []string{"Malay", "Chinese", "Indian", "Sabah", "Sarawak"},
					Dummies: seqDummies("Bangsa", 1, 4),
				},
				{
					Name:    "Religion",
					Options: []string{"Islam", "Buddha", "Hindu", "Others"},
					Dummies: seqDummies("Agama", 1, 3),
				},
				{
					Name:    "Marital Status",
					Options: []string{"Single", "Married", "Widowed", "Divorced", "Separated"},
					Dummies: seqDummies("Status Perkahwinan", 1, 4),
				},
				{
					Name: "Level of Education",
					Options: []string{
						"No certificate",
						"UPSR",
						"PT3",
						"SPM",
						"STPM",
						"SIJIL/TVET",
						"Sijil Politeknik/Universiti",
						"Diploma",
						"Bachelor's Degree",
					},
					Dummies: seqDummies("Tahap Pendidikan", 1, 8),
				},
				{
					Name: "Occupation",
					Options: []string{
						"tidak bekerja",
						"pekerja kerajaan",
						"pekerja swasta",
						"bekerja sendiri",
						"suri rumah",
						"pelajar",
						"pesara kerajaan",
					},
					Dummies: seqDummies("Pekerjaan", 1, 6),
				},
				{
					Name:    "No household",
					Options: []string{"1 org", "2 people", "3 - 4 people", "5 - 6 people", "7 people or more"},
					Dummies: seqDummies("Bilangan isi rumah", 1, 4),
				},
				{
					Name:    "Number of dependent",
					Options: []string{"None", "1 - 2 people", "3 - 4 people", "5 - 6 people", "7 people or more"},
					Dummies: seqDummies("Bilangan tanggungan", 1, 4),
				},
				{
					Name: "Type of rental Housing",
					Options: []string{
						"House",
						"Room",
						"Flat",
						"Apartment",
						"Condominium",
						"Terrace House - Single storey",
						"Terrace House - Double storey",
						"1 unit House",
					},
					Dummies: seqDummies("Jenis rumah sewa", 1, 5),
				},
				{
					// Seven non-baseline levels but only the plain
					// "furnished" answer maps onto the model's dummy.
					Name: "Furnished type",
					Options: []string{
						"None",
						"furnished",
						"1 + 1",
						"2 + 1",
						"3 + 1",
						"1 + 1 + utility",
						"2 + 1 + utility",
						"3 + 1 + utility",
					},
					Dummies: map[int]string{1: "Jenis kelengkapan perabot(1)"},
				},
				{
					Name: "deposit",
					Options: []string{
						"tiada",
						"1 + 1",
						"2 + 1",
						"3 + 1",
						"1 + 1 + utility",
						"2 + 1 + utility",
						"3 + 1 + utility",
					},
					Dummies: seqDummies("Bayaran deposit", 1, 6),
				},
				{
					Name:    "Total year of rental",
					Options: []string{"Less than 6 months", "Less than 1 year", "1 - 2 years", "3 - 5 years", "6 - 10 years"},
					Dummies: seqDummies("Berapa lama anda telah menyewa rumah", 1, 4),
				},
				{
					Name:    "known SMART SEWA",
					Options: []string{"Yes", "No"},
					Dummies: map[int]string{1: smartSewaFeature},
				},
			},
		},
		Coefficients: defaultCoefficients(),
	}
}
