package id

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

const (
	epoch          int64 = 1672531200000 // Custom epoch: 2023-01-01 UTC in ms
	nodeBits       uint8 = 10            // Supports up to 1024 nodes
	sequenceBits   uint8 = 12            // Supports up to 4096 IDs per ms per node
	nodeMax              = -1 ^ (-1 << nodeBits)
	sequenceMask         = -1 ^ (-1 << sequenceBits)
	nodeShift      uint8 = sequenceBits
	timestampShift uint8 = sequenceBits + nodeBits
)

var ErrInvalidNode = fmt.Errorf("node ID must be between 0 and %d", nodeMax)

type Snowflake struct {
	mu        sync.Mutex
	timestamp int64
	nodeID    int64
	sequence  int64
}

func NewSnowflake(nodeID int64) (*Snowflake, error) {
	if nodeID < 0 || nodeID > int64(nodeMax) {
		return nil, ErrInvalidNode
	}
	return &Snowflake{
		nodeID: nodeID,
	}, nil
}

func (s *Snowflake) Generate() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UnixNano() / 1e6 // ms

	// Handle clock rollback
	if now < s.timestamp {
		for now < s.timestamp {
			now = time.Now().UnixNano() / 1e6
		}
	}

	if now == s.timestamp {
		s.sequence = (s.sequence + 1) & sequenceMask
		if s.sequence == 0 {
			// sequence overflow → wait for next ms
			for now <= s.timestamp {
				now = time.Now().UnixNano() / 1e6
			}
		}
	} else {
		s.sequence = 0
	}

	s.timestamp = now

	id := ((now - epoch) << timestampShift) |
		(s.nodeID << nodeShift) |
		(s.sequence)

	return strconv.FormatInt(id, 10)
}

// NewULID returns a monotonic ULID string, used for JWT jti values.
func NewULID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), ulid.Monotonic(rand.Reader, 0)).String()
}

// GenerateOrderRef creates the external order reference sent to the payment
// gateway. Example: ORDER-4821X7QA
func GenerateOrderRef(prefix string) string {
	const chars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

	// Use milliseconds mod 10000 (last 4 digits)
	timestamp := time.Now().UnixMilli() % 10000

	// Generate 4 random chars
	b := make([]byte, 4)
	for i := range b {
		num, _ := rand.Int(rand.Reader, big.NewInt(int64(len(chars))))
		b[i] = chars[num.Int64()]
	}

	return fmt.Sprintf("%s-%04d%s", prefix, timestamp, string(b))
}
