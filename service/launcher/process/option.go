package process

import "io"

// Option configures a Launcher
type Option func(l *Launcher)

// WithExecutable sets the binary started for each plane
func WithExecutable(path string) Option {
	return func(l *Launcher) {
		l.executable = path
	}
}

// WithArgs sets the child command line, excluding the executable
func WithArgs(args ...string) Option {
	return func(l *Launcher) {
		l.args = args
	}
}

// WithEnv adds environment entries on top of the parent's environment
func WithEnv(env ...string) Option {
	return func(l *Launcher) {
		l.env = append(l.env, env...)
	}
}

// WithOutput sets where child stdout and stderr go
func WithOutput(stdout, stderr io.Writer) Option {
	return func(l *Launcher) {
		if stdout != nil {
			l.stdout = stdout
		}
		if stderr != nil {
			l.stderr = stderr
		}
	}
}
