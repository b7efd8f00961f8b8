package sexp

// SEXP type tags as they appear on the wire.
const (
	tagNil         = 0
	tagSymbol      = 1
	tagPairlist    = 2
	tagClosure     = 3
	tagEnvironment = 4
	tagPromise     = 5
	tagLanguage    = 6
	tagSpecial     = 7
	tagBuiltin     = 8
	tagChar        = 9
	tagLogical     = 10
	tagInteger     = 13
	tagReal        = 14
	tagComplex     = 15
	tagString      = 16
	tagDots        = 17
	tagAny         = 18
	tagList        = 19
	tagExpression  = 20
	tagBytecode    = 21
	tagExternalPtr = 22
	tagWeakRef     = 23
	tagRaw         = 24
	tagS4          = 25

	// Pseudo-tags that exist only on the wire.
	tagAltrep        = 238
	tagAttrPairlist  = 239
	tagAttrLanguage  = 240
	tagBaseEnv       = 241
	tagEmptyEnv      = 242
	tagBCRepRef      = 243
	tagBCRepDef      = 244
	tagGenericRef    = 245
	tagClassRef      = 246
	tagPersist       = 247
	tagPackage       = 248
	tagNamespace     = 249
	tagBaseNamespace = 250
	tagMissingArg    = 251
	tagUnboundValue  = 252
	tagGlobalEnv     = 253
	tagNilValue      = 254
	tagRef           = 255
)

// Flags word layout.
const (
	flagTypeMask    = 0xFF
	flagIsObject    = 1 << 8
	flagHasAttr     = 1 << 9
	flagHasTag      = 1 << 10
	flagLevelsShift = 12
)

// String encoding bits carried in the levels field of a CHARSXP flags
// word.
const (
	charLatin1 = 1 << 2
	charUTF8   = 1 << 3
	charBytes  = 1 << 5
	charASCII  = 1 << 6
)

// longVectorSentinel in a length word switches to the 64-bit length form.
const longVectorSentinel = -1

// naStringLength marks the NA string in a CHARSXP length word.
const naStringLength = -1

var tagNames = map[int]string{
	tagNil:           "NULL",
	tagSymbol:        "symbol",
	tagPairlist:      "pairlist",
	tagClosure:       "closure",
	tagEnvironment:   "environment",
	tagPromise:       "promise",
	tagLanguage:      "language",
	tagSpecial:       "special",
	tagBuiltin:       "builtin",
	tagChar:          "char",
	tagLogical:       "logical",
	tagInteger:       "integer",
	tagReal:          "double",
	tagComplex:       "complex",
	tagString:        "character",
	tagDots:          "...",
	tagAny:           "any",
	tagList:          "list",
	tagExpression:    "expression",
	tagBytecode:      "bytecode",
	tagExternalPtr:   "externalptr",
	tagWeakRef:       "weakref",
	tagRaw:           "raw",
	tagS4:            "S4",
	tagAttrPairlist:  "pairlist",
	tagAttrLanguage:  "language",
	tagBaseEnv:       "base environment",
	tagEmptyEnv:      "empty environment",
	tagPersist:       "persistent",
	tagPackage:       "package",
	tagNamespace:     "namespace",
	tagBaseNamespace: "base namespace",
	tagMissingArg:    "missing argument",
	tagUnboundValue:  "unbound value",
	tagGlobalEnv:     "global environment",
}

func tagName(t int) string {
	if name, ok := tagNames[t]; ok {
		return name
	}

	return "unknown"
}
