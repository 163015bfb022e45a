// Package neuron provides the point-neuron variants driven by the engine.
//
// Integrate-and-fire variants (iaf, leaky_iaf) work in SI units and emit a
// discrete spike from their post-step rule. Conductance-based variants
// (hodgkin_huxley, rinzel, wilson, connor_stevens) are written in mV and ms
// with a TimeScale of 1e3. They have no discrete spike; action potentials
// emerge from the voltage trace. morris_lecar is declared but its dynamics
// are not implemented.
package neuron
