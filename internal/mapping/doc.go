// Package mapping provides the YAML configuration read by the planner:
// mapper-wide policy flags, object factory candidates and the user-declared
// mapping contracts with their member directives.
//
// # Schema Overview
//
//	version: "1"
//	mapper:
//	  reference_handling: true
//	  null_fallback: default        # default | throw | substitute
//	  throw_on_property_mapping_null_mismatch: false
//	  deep_cloning: false
//	factories:
//	  - func: factory.Create
//	    source_index: 0
//	mappings:
//	  - name: MapOrder
//	    source: store.Order
//	    target: warehouse.Order
//	    reference_handler: false    # contract takes an explicit handler
//	    implemented: false          # user supplies the body
//	    ignore: [Revision]          # target members
//	    ignore_source: [Audit]      # source members
//	    121:
//	      FullName: Name
//	    options:
//	      null_fallback: throw
//	    fields:
//	      - target: Note
//	        null_fallback: substitute
//	        substitute: '"n/a"'
//
// # Option layering
//
// Options are layered member > contract > mapper: the most specific layer
// that sets a value wins (see Options.Layer). Unset values fall back to the
// defaults: no reference handling, no deep cloning, DefaultValue fallback.
//
// When a throwing policy and a substitute are both in force the throw wins
// and the conflict is reported by the planner.
package mapping
