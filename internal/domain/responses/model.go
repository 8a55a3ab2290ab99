package responses

import "strings"

// Gender define los géneros aceptados por el formulario.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

// Genders en el orden en que se muestran en el formulario.
var Genders = []Gender{GenderMale, GenderFemale, GenderOther}

// Pet define las preferencias de mascota.
type Pet string

const (
	PetDog   Pet = "Dog"
	PetCat   Pet = "Cat"
	PetFish  Pet = "Fish"
	PetOther Pet = "Other"
)

var Pets = []Pet{PetDog, PetCat, PetFish, PetOther}

// Límites del widget de edad. La capa de storage no los aplica.
const (
	MinAge = 1
	MaxAge = 100
)

// Response es una respuesta al cuestionario.
// ID lo asigna el store y no se reutiliza.
type Response struct {
	ID            int64
	Name          string
	Age           int
	Gender        Gender
	PetPreference Pet
}

// ParseGender valida pertenencia exacta (case-sensitive) al conjunto cerrado.
func ParseGender(s string) (Gender, bool) {
	s = strings.TrimSpace(s)
	for _, g := range Genders {
		if string(g) == s {
			return g, true
		}
	}
	return "", false
}

func ParsePet(s string) (Pet, bool) {
	s = strings.TrimSpace(s)
	for _, p := range Pets {
		if string(p) == s {
			return p, true
		}
	}
	return "", false
}

// Label devuelve la etiqueta visible (francés).
func (g Gender) Label() string {
	switch g {
	case GenderMale:
		return "Homme"
	case GenderFemale:
		return "Femme"
	case GenderOther:
		return "Autre"
	default:
		return string(g)
	}
}

func (p Pet) Label() string {
	switch p {
	case PetDog:
		return "Chien"
	case PetCat:
		return "Chat"
	case PetFish:
		return "Poisson"
	case PetOther:
		return "Autre"
	default:
		return string(p)
	}
}
