package ast

// Visibility описывает доступность элемента.
type Visibility uint8

const (
	VisPrivate    Visibility = iota
	VisPublic                // pub
	VisCrate                 // pub(crate), crate
	VisRestricted            // pub(super), pub(in path), pub(self)
)

func (v Visibility) String() string {
	switch v {
	case VisPublic:
		return "pub"
	case VisCrate:
		return "pub(crate)"
	case VisRestricted:
		return "pub(restricted)"
	default:
		return "private"
	}
}

// IsPub reports whether the item carries any pub modifier.
func (v Visibility) IsPub() bool { return v != VisPrivate }
