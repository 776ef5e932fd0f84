package otp

import "time"

// SetClock y SetGenerator permiten fijar reloj y código en los tests.
func (s *Service) SetClock(now func() time.Time)           { s.now = now }
func (s *Service) SetGenerator(gen func() (string, error)) { s.generate = gen }
