package methodpool

import "github.com/apisurface/apisurface/internal/model"

// builtin is a hand-written method summary: the effect of invoking a
// well-known API given the popped receiver (zero Element for a static call)
// and argument elements in declared order (spec.md §4.4(b)).
type builtin func(receiver model.Element, args []model.Element) (model.Element, bool)

// collectionCtorOwners names the mutable-collection classes whose
// single-argument (copy) constructor is recognized: `new ArrayList<>(xs)`
// infers its element type from xs's own element type the same way
// `entity`/`header` thread constant values through their receiver.
var collectionCtorOwners = map[string]bool{
	"java.util.ArrayList":     true,
	"java.util.LinkedList":    true,
	"java.util.HashSet":       true,
	"java.util.LinkedHashSet": true,
	"java.util.TreeSet":       true,
}

// builtinKey resolves the hand-written summary keyed by (owner, name,
// arity). Most summaries (the Response-builder family, string
// concatenation) are recognized by name and arity alone regardless of
// owner — spec.md §4.4(b)'s "well-known APIs are recognized structurally,
// not by owner" — but the collection factory methods and copy-constructor
// (spec.md §4.4(b)'s "collection constructors") only mean something on a
// specific owner, so those are matched by owner first.
func builtinKey(owner, name string, arity int) string {
	switch {
	case owner == "java.util.Arrays" && name == "asList":
		return "collection:list"
	case owner == "java.util.List" && name == "of":
		return "collection:list"
	case owner == "java.util.Set" && name == "of":
		return "collection:set"
	case owner == "java.util.Collections" && name == "singletonList" && arity == 1:
		return "collection:list"
	case owner == "java.util.Collections" && name == "singleton" && arity == 1:
		return "collection:set"
	case name == "<init>" && arity == 1 && collectionCtorOwners[owner]:
		return "collection:ctor"
	}
	switch {
	case name == "build" && arity == 0,
		name == "ok" && (arity == 0 || arity == 1),
		name == "status" && arity == 1,
		name == "entity" && arity == 1,
		name == "header" && arity == 2,
		name == "type" && arity == 1,
		name == "concat" && arity == 1,
		name == "append" && arity == 1,
		name == "toString" && arity == 0,
		name == "valueOf" && arity == 1:
		return name
	default:
		return ""
	}
}

// statusNames maps javax.ws.rs.core.Response.Status enum constant names to
// their HTTP status code, so `status(Status.NOT_FOUND)` is recognized the
// same way as the literal `status(404)` form.
var statusNames = map[string]int{
	"OK": 200, "CREATED": 201, "ACCEPTED": 202, "NO_CONTENT": 204,
	"RESET_CONTENT": 205, "PARTIAL_CONTENT": 206,
	"MOVED_PERMANENTLY": 301, "FOUND": 302, "SEE_OTHER": 303, "NOT_MODIFIED": 304,
	"TEMPORARY_REDIRECT": 307,
	"BAD_REQUEST": 400, "UNAUTHORIZED": 401, "FORBIDDEN": 403, "NOT_FOUND": 404,
	"METHOD_NOT_ALLOWED": 405, "NOT_ACCEPTABLE": 406, "CONFLICT": 409,
	"GONE": 410, "PRECONDITION_FAILED": 412, "UNSUPPORTED_MEDIA_TYPE": 415,
	"INTERNAL_SERVER_ERROR": 500, "NOT_IMPLEMENTED": 501, "SERVICE_UNAVAILABLE": 503,
}

func builtinTable() map[string]builtin {
	return map[string]builtin{
		"status": func(receiver model.Element, args []model.Element) (model.Element, bool) {
			out := withResponse(receiver)
			for _, v := range args[0].Values.Values {
				switch n := v.(type) {
				case int64:
					out.Response.StatusCodes[int(n)] = true
				case string:
					if code, ok := statusNames[n]; ok {
						out.Response.StatusCodes[code] = true
					}
				}
			}
			return out, true
		},
		"entity": func(receiver model.Element, args []model.Element) (model.Element, bool) {
			out := withResponse(receiver)
			out.Response.BodyType = args[0].Type
			out.Response.HasBody = true
			return out, true
		},
		"header": func(receiver model.Element, args []model.Element) (model.Element, bool) {
			out := withResponse(receiver)
			for _, v := range args[0].Values.Values {
				if name, ok := v.(string); ok {
					out.Response.Headers[name] = true
				}
			}
			return out, true
		},
		"type": func(receiver model.Element, args []model.Element) (model.Element, bool) {
			// @Produces-equivalent media-type tag; tracked at the extractor
			// level from annotations, not from simulation, so this is a
			// pass-through that just keeps the builder element alive.
			return withResponse(receiver), true
		},
		"ok": func(receiver model.Element, args []model.Element) (model.Element, bool) {
			out := withResponse(receiver)
			out.Response.StatusCodes[200] = true
			if len(args) == 1 {
				out.Response.BodyType = args[0].Type
				out.Response.HasBody = true
			}
			return out, true
		},
		"build": func(receiver model.Element, args []model.Element) (model.Element, bool) {
			out := receiver
			out.Type = model.ResponseType
			if out.Response == nil {
				out.Response = model.NewHttpResponse()
			}
			return out, true
		},
		"concat": stringJoin,
		"append":  stringJoin,
		"toString": func(receiver model.Element, args []model.Element) (model.Element, bool) {
			out := model.Element{Type: model.TypeRef{Name: "java.lang.String"}, Values: receiver.Values}
			return out, true
		},
		"valueOf": func(receiver model.Element, args []model.Element) (model.Element, bool) {
			return model.Element{Type: model.TypeRef{Name: "java.lang.String"}}, true
		},
		"collection:list": collectionLiteral("java.util.List"),
		"collection:set":  collectionLiteral("java.util.Set"),
		"collection:ctor": collectionCopyCtor,
	}
}

func withResponse(receiver model.Element) model.Element {
	out := receiver
	if out.Response == nil {
		out.Response = model.NewHttpResponse()
	} else {
		cloned := *out.Response
		cloned.StatusCodes = cloneIntSet(out.Response.StatusCodes)
		cloned.Headers = cloneStringSet(out.Response.Headers)
		out.Response = &cloned
	}
	return out
}

func stringJoin(receiver model.Element, args []model.Element) (model.Element, bool) {
	out := model.Element{Type: model.TypeRef{Name: "java.lang.String"}}
	a, b := receiver.Values.Single(), args[0].Values.Single()
	if a != nil && b != nil {
		as, aok := a.(string)
		bs, bok := b.(string)
		if aok && bok {
			out.Values = model.Single(as + bs)
		}
	}
	return out, true
}

// collectionLiteral builds the builtin for a collection factory call
// (Arrays.asList, List.of, Set.of, Collections.singletonList/singleton):
// the returned Element's type carries name with a single type argument
// inferred from the first supplied element, the same "infer from the
// arguments" approach entity/header already use for body type and header
// name (spec.md §4.4(b)'s "collection constructors").
func collectionLiteral(name string) builtin {
	return func(receiver model.Element, args []model.Element) (model.Element, bool) {
		elem := model.Object
		if len(args) > 0 {
			elem = args[0].Type
		}
		return model.Element{Type: model.TypeRef{Name: name, Args: []model.TypeRef{elem}}}, true
	}
}

// collectionCopyCtor is the builtin for the single-argument copy
// constructor of a mutable collection class (`new ArrayList<>(xs)`,
// `new HashSet<>(xs)`, ...): when the sole argument is itself a
// collection, the element type argument of the constructed collection is
// taken from the argument's own element type, keeping the constructing
// class named by receiver (spec.md §4.4(b)'s "collection constructors").
// If the argument isn't a collection (e.g. the `ArrayList(int capacity)`
// overload), the receiver's type is returned unchanged.
func collectionCopyCtor(receiver model.Element, args []model.Element) (model.Element, bool) {
	if len(args) != 1 || !model.IsCollection(args[0].Type) {
		return model.Empty(receiver.Type), true
	}
	elem := model.ElementOf(args[0].Type)
	return model.Element{Type: model.TypeRef{Name: receiver.Type.Name, Args: []model.TypeRef{elem}}}, true
}

func cloneIntSet(m map[int]bool) map[int]bool {
	out := make(map[int]bool, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneStringSet(m map[string]bool) map[string]bool {
	out := make(map[string]bool, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
