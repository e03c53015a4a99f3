package monitor

import "github.com/brewos/kernel/internal/vm"

// Syscall ids. The compiler's builtin table maps identifier names to these same values, so a
// SYSCALL instruction's operand always means the same thing on both sides of the ABI.
const (
	SysPrintInt vm.Word = iota
	SysPrintChar
	SysPrintStr
	SysGetchar
	SysCls
	SysNewline
	SysKBHit
	SysSleep

	SysMalloc
	SysFree
	SysPeek
	SysPoke
	SysMemset
	SysMemcpy
	SysMemmove

	SysStrlen
	SysStrcmp
	SysStrcpy
	SysStrncmp
	SysStrncpy
	SysStrncat
	SysStrstr
	SysStrrchr
	SysIsalnum
	SysIsalpha
	SysIsdigit
	SysTolower
	SysToupper

	SysAbs
	SysMin
	SysMax
	SysPow
	SysSqrt
	SysRand
	SysSrand

	SysDrawPixel
	SysDrawRect
	SysDrawLine
	SysDrawText
	SysGetWidth
	SysGetHeight
)

// Builtins maps a source-level builtin name to its syscall id, per the compiler's fixed builtin
// table.
var Builtins = map[string]vm.Word{
	"print_int":  SysPrintInt,
	"print_char": SysPrintChar,
	"print_str":  SysPrintStr,
	"getchar":    SysGetchar,
	"cls":        SysCls,
	"newline":    SysNewline,
	"kb_hit":     SysKBHit,
	"sleep":      SysSleep,

	"malloc":  SysMalloc,
	"free":    SysFree,
	"peek":    SysPeek,
	"poke":    SysPoke,
	"memset":  SysMemset,
	"memcpy":  SysMemcpy,
	"memmove": SysMemmove,

	"strlen":  SysStrlen,
	"strcmp":  SysStrcmp,
	"strcpy":  SysStrcpy,
	"strncmp": SysStrncmp,
	"strncpy": SysStrncpy,
	"strncat": SysStrncat,
	"strstr":  SysStrstr,
	"strrchr": SysStrrchr,
	"isalnum": SysIsalnum,
	"isalpha": SysIsalpha,
	"isdigit": SysIsdigit,
	"tolower": SysTolower,
	"toupper": SysToupper,

	"abs":   SysAbs,
	"min":   SysMin,
	"max":   SysMax,
	"pow":   SysPow,
	"sqrt":  SysSqrt,
	"rand":  SysRand,
	"srand": SysSrand,

	"draw_pixel":  SysDrawPixel,
	"draw_rect":   SysDrawRect,
	"draw_line":   SysDrawLine,
	"draw_text":   SysDrawText,
	"get_width":   SysGetWidth,
	"get_height":  SysGetHeight,
}

// Arity reports how many arguments a builtin expects, so the parser can validate a call site's
// argument list.
var Arity = map[string]int{
	"print_int": 1, "print_char": 1, "print_str": 1, "getchar": 0,
	"cls": 0, "newline": 0, "kb_hit": 0, "sleep": 1,

	"malloc": 1, "free": 1, "peek": 1, "poke": 2,
	"memset": 3, "memcpy": 3, "memmove": 3,

	"strlen": 1, "strcmp": 2, "strcpy": 2, "strncmp": 3, "strncpy": 3,
	"strncat": 3, "strstr": 2, "strrchr": 2,
	"isalnum": 1, "isalpha": 1, "isdigit": 1, "tolower": 1, "toupper": 1,

	"abs": 1, "min": 2, "max": 2, "pow": 2, "sqrt": 1, "rand": 0, "srand": 1,

	"draw_pixel": 3, "draw_rect": 5, "draw_line": 5, "draw_text": 3,
	"get_width": 0, "get_height": 0,
}
