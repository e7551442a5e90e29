package generator

import "strings"

// PHP keywords and reserved names that cannot be used as a class name.
var reservedKeywords = map[string]bool{
	"__class__": true, "__dir__": true, "__file__": true, "__function__": true,
	"__halt_compiler": true, "__line__": true, "__method__": true,
	"__namespace__": true, "__trait__": true,
	"abstract": true, "and": true, "array": true, "as": true, "bool": true,
	"break": true, "callable": true, "case": true, "catch": true, "class": true,
	"clone": true, "const": true, "continue": true, "declare": true,
	"default": true, "die": true, "do": true, "echo": true, "else": true,
	"elseif": true, "empty": true, "enddeclare": true, "endfor": true,
	"endforeach": true, "endif": true, "endswitch": true, "endwhile": true,
	"enum": true, "eval": true, "exit": true, "extends": true, "false": true,
	"final": true, "finally": true, "float": true, "fn": true, "for": true,
	"foreach": true, "function": true, "global": true, "goto": true, "if": true,
	"implements": true, "include": true, "include_once": true, "instanceof": true,
	"insteadof": true, "int": true, "interface": true, "isset": true,
	"iterable": true, "list": true, "match": true, "mixed": true,
	"namespace": true, "never": true, "new": true, "null": true, "numeric": true,
	"object": true, "or": true, "parent": true, "print": true, "private": true,
	"protected": true, "public": true, "readonly": true, "require": true,
	"require_once": true, "resource": true, "return": true, "self": true,
	"static": true, "string": true, "switch": true, "throw": true, "trait": true,
	"true": true, "try": true, "unset": true, "use": true, "var": true,
	"void": true, "while": true, "xor": true, "yield": true,
}

func isReservedKeyword(name string) bool {
	return reservedKeywords[strings.ToLower(name)]
}
