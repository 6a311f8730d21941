// Package streamop implements the stream iterator and operation engine (C7):
// walking a serialized blob block-by-block, either materializing it into a
// bitvector.Container (the OR-combine deserialize path) or streaming a
// boolean set operation against one without ever materializing the whole
// argument.
package streamop
