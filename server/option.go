package server

type Option func(s *Server)

func WithPort(port string) Option {
	return func(s *Server) {
		s.port = port
	}
}

func WithCORS() Option {
	return func(s *Server) {
		s.withCORS = true
	}
}
