package enums

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

func ParseGender(value string) (Gender, bool) {
	switch Gender(value) {
	case GenderMale, GenderFemale, GenderOther:
		return Gender(value), true
	default:
		return "", false
	}
}
