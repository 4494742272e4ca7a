package event

import (
	"time"

	"github.com/viant/afs"
	"github.com/viant/fleet/service/messaging/fs"
	"github.com/viant/fleet/service/messaging/memory"
)

type Option func(s *Service)

// WithNewFsQueueConfig sets the new file system queue configuration
func WithNewFsQueueConfig(newConfig func(name string) fs.Config) Option {
	return func(s *Service) {
		s.fsNewQueueConfig = newConfig
	}
}

// WithNewMemoryQueueConfig  sets the new memory queue configuration
func WithNewMemoryQueueConfig(newQueue func(name string) memory.Config) Option {
	return func(s *Service) {
		s.memNewQueueConfig = newQueue
	}
}

// WithPollInterval sets how long a listener waits when its queue is empty
func WithPollInterval(interval time.Duration) Option {
	return func(s *Service) {
		s.pollInterval = interval
	}
}

// WithFileService sets the storage service used by the fs vendor
func WithFileService(fs afs.Service) Option {
	return func(s *Service) {
		s.fs = fs
	}
}
