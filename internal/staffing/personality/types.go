package personality

import "staffing-workers/internal/models"

// Type is a 4-letter personality type or Unknown.
type Type string

const (
	INTJ Type = "INTJ"
	INTP Type = "INTP"
	ENTJ Type = "ENTJ"
	ENTP Type = "ENTP"
	INFJ Type = "INFJ"
	INFP Type = "INFP"
	ENFJ Type = "ENFJ"
	ENFP Type = "ENFP"
	ISTJ Type = "ISTJ"
	ISFJ Type = "ISFJ"
	ESTJ Type = "ESTJ"
	ESFJ Type = "ESFJ"
	ISTP Type = "ISTP"
	ISFP Type = "ISFP"
	ESTP Type = "ESTP"
	ESFP Type = "ESFP"

	Unknown Type = "Unknown"
)

// Relation lists the two types a type should not be teamed with.
type Relation struct {
	Bad     Type
	NotGood Type
}

var relations = map[Type]Relation{
	INTJ: {Bad: ESFP, NotGood: ENTJ},
	INTP: {Bad: ESFJ, NotGood: ENTP},
	ENTJ: {Bad: ISFP, NotGood: INTJ},
	ENTP: {Bad: ISFJ, NotGood: INTP},
	INFJ: {Bad: ESTP, NotGood: ENFJ},
	INFP: {Bad: ESTJ, NotGood: ENFP},
	ENFJ: {Bad: ISTP, NotGood: INFJ},
	ENFP: {Bad: ISTJ, NotGood: INFP},
	ISTJ: {Bad: ENFP, NotGood: ESTJ},
	ISFJ: {Bad: ENTP, NotGood: ESFJ},
	ESTJ: {Bad: INFP, NotGood: ISTJ},
	ISTP: {Bad: ENFJ, NotGood: ESTP},
	ISFP: {Bad: ENTJ, NotGood: ESFP},
	ESTP: {Bad: INFJ, NotGood: ISTP},
	ESFP: {Bad: INTJ, NotGood: ISFP},
	ESFJ: {Bad: INTP, NotGood: ISFJ},
}

// Relations returns the incompatibility entry for t. Unknown and unrecognized
// types report ok=false and a zero Relation.
func Relations(t Type) (Relation, bool) {
	r, ok := relations[t]
	return r, ok
}

// Incompatible reports whether either type lists the other as Bad or NotGood.
func Incompatible(a, b Type) bool {
	if ra, ok := relations[a]; ok && (ra.Bad == b || ra.NotGood == b) {
		return true
	}
	if rb, ok := relations[b]; ok && (rb.Bad == a || rb.NotGood == a) {
		return true
	}
	return false
}

// DeriveType picks, per axis, the first letter when its percentage is at
// least 50. An empty vector is Unknown.
func DeriveType(v models.PersonalityVector) Type {
	if v.IsEmpty() {
		return Unknown
	}
	pick := func(letter, opposite string) byte {
		if v.Get(letter) >= models.NeutralPercentage {
			return letter[0]
		}
		return opposite[0]
	}
	return Type([]byte{
		pick("E", "I"),
		pick("N", "S"),
		pick("T", "F"),
		pick("J", "P"),
	})
}
