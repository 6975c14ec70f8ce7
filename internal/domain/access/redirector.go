package access

// DefaultMaxRedirectAttempts tope de redirecciones por montaje antes de desactivar el redirector.
const DefaultMaxRedirectAttempts = 5

// NavState estado de navegación de un montaje del cliente. Se reinicia al remontar.
type NavState struct {
	Attempts   int    `json:"attempts"`
	LastTarget string `json:"last_target"`
	Disabled   bool   `json:"disabled"`
}

// Outcome resultado de evaluar un render.
type Outcome struct {
	Navigate bool
	Target   string
	// Toast se emite una única vez, en el intento que supera el tope.
	Toast    bool
	Attempts int
	Disabled bool
}

// Redirector aplica Decide con dos protecciones contra bucles: contador de intentos con tope
// y memo del último destino. No guarda estado propio; el NavState lo aporta el llamador.
type Redirector struct {
	policy      *Policy
	maxAttempts int
}

// NewRedirector construye el redirector. maxAttempts <= 0 usa DefaultMaxRedirectAttempts.
func NewRedirector(p *Policy, maxAttempts int) *Redirector {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxRedirectAttempts
	}
	return &Redirector{policy: p, maxAttempts: maxAttempts}
}

// Policy devuelve la política con la que decide.
func (r *Redirector) Policy() *Policy { return r.policy }

// Step evalúa un render y actualiza st.
func (r *Redirector) Step(st *NavState, s Session, path string, loading bool) Outcome {
	if st.Disabled {
		return Outcome{Attempts: st.Attempts, Disabled: true}
	}
	if loading {
		return Outcome{Attempts: st.Attempts}
	}

	target, ok := Decide(r.policy, s, path)
	if !ok {
		// La ruta ya es correcta: el siguiente destino, aunque repita, es una navegación nueva.
		st.LastTarget = ""
		return Outcome{Attempts: st.Attempts}
	}
	if target == st.LastTarget {
		return Outcome{Attempts: st.Attempts}
	}

	st.Attempts++
	if st.Attempts > r.maxAttempts {
		st.Disabled = true
		return Outcome{Toast: true, Attempts: st.Attempts, Disabled: true}
	}
	st.LastTarget = target
	return Outcome{Navigate: true, Target: target, Attempts: st.Attempts}
}
