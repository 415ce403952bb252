// Package override manages the "sleep permitted until" window.
//
// Gate is the window itself with lazy expiry: an expired value is removed the
// first time it is checked. Handler maps the allow_sleep and disallow_sleep
// commands onto the gate and produces the acknowledgements sent back to the
// caller.
package override
