package checkout

// Step est une étape du tunnel de commande
type Step string

const (
	StepPersonal      Step = "personal"
	StepDelivery      Step = "delivery"
	StepPaymentMethod Step = "payment_method"
	StepSummary       Step = "summary"
	StepPayment       Step = "payment"
)

// Steps liste les étapes dans l'ordre strict du tunnel
var Steps = []Step{StepPersonal, StepDelivery, StepPaymentMethod, StepSummary, StepPayment}

func (s Step) index() int {
	for i, step := range Steps {
		if step == s {
			return i
		}
	}
	return -1
}

// ParseStep retourne false pour un nom d'étape inconnu
func ParseStep(name string) (Step, bool) {
	s := Step(name)
	return s, s.index() >= 0
}

func (s Step) next() Step {
	i := s.index()
	if i < 0 || i == len(Steps)-1 {
		return s
	}
	return Steps[i+1]
}

func (s Step) prev() Step {
	i := s.index()
	if i <= 0 {
		return s
	}
	return Steps[i-1]
}
