// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package spac implements a streaming, composable parser framework over
// hierarchical event streams such as XML and JSON.
//
// A Source produces a sequence of Events; a driver (Parse) pushes each
// event into a tree of Handlers built from small, composable Parsers.
// Parsers are matched against the stream's structure with ContextMatchers
// and combined with Splitter (via Split), CompoundHandler (via And/As2/
// As3/As), and FunnelledTransformerHandler (via Funnel/OneOf) rather than
// by re-parsing or backtracking: the whole tree is driven by one forward
// pass over the input.
//
// Concrete event families — encoding/xml and encoding/json token streams
// projected onto this package's Event interface — live in the xml and json
// subpackages.
package spac
