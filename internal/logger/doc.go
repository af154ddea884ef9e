// Package logger provides a small wrapper around zap to offer:
//   - a global sugared logger with a sane console encoder writing to stderr,
//   - context helpers (ToContext/FromContext/WithName/WithKV),
//   - level configuration and parsing utilities,
//   - convenience functions (Infof, ErrorKV, etc.).
//
// Services accept a context and extract the logger from it, so the generator,
// renderer and gRPC server all log under their own scoped names.
package logger
