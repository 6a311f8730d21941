package bmserial

type options struct {
	compressionLevel int
	byteOrderSer     bool
	gapLengthSer     bool
	wideAddress      bool
	logger           *Logger
}

// Option configures Serialize/Deserialize/OperationDeserialize behavior.
type Option func(*options)

// WithCompressionLevel sets the per-block model search depth, 0 through 5,
// matching spec.md's set_compression_level: 0 emits the plain 2048-word
// form for bit-blocks, except that a single-bit block still uses Bit1Bit
// and a block held in GAP form is written as a plain GAP list; higher
// levels progressively try cheaper run-length,
// Elias-Gamma, and interpolative-coded representations. Values outside
// 0..5 are clamped.
func WithCompressionLevel(level int) Option {
	return func(o *options) {
		if level < 0 {
			level = 0
		}
		if level > 5 {
			level = 5
		}
		o.compressionLevel = level
	}
}

// WithByteOrderSerialization controls whether the header carries an
// explicit ByteOrder byte. Disabling it (false) is only safe when the
// caller guarantees producer and consumer share endianness.
func WithByteOrderSerialization(enabled bool) Option {
	return func(o *options) {
		o.byteOrderSer = enabled
	}
}

// WithGapLengthSerialization controls whether the header carries the
// four-entry GapLevels table. This codec doesn't use native GAP capacity
// levels internally (see DESIGN.md), so the table, when written, is
// informational only; disabling it shrinks the header by eight bytes.
func WithGapLengthSerialization(enabled bool) Option {
	return func(o *options) {
		o.gapLengthSer = enabled
	}
}

// WithWideAddress selects the 64-bit address-space header variant, for
// vectors whose highest set bit exceeds 2^32-1.
func WithWideAddress(enabled bool) Option {
	return func(o *options) {
		o.wideAddress = enabled
	}
}

// WithLogger configures structured logging for Serialize/Deserialize calls.
// Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		compressionLevel: 5,
		byteOrderSer:     true,
		gapLengthSer:     true,
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
