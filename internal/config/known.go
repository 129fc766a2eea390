package config

// standardHeaders are include targets that ship with the toolchain or the
// platform. They are never reported as unknown when unresolved.
var standardHeaders = []string{
	// C standard library
	"assert.h", "complex.h", "ctype.h", "errno.h", "fenv.h", "float.h",
	"inttypes.h", "iso646.h", "limits.h", "locale.h", "math.h", "setjmp.h",
	"signal.h", "stdalign.h", "stdarg.h", "stdatomic.h", "stdbool.h",
	"stddef.h", "stdint.h", "stdio.h", "stdlib.h", "stdnoreturn.h",
	"string.h", "tgmath.h", "threads.h", "time.h", "uchar.h", "wchar.h",
	"wctype.h",

	// C++ standard library
	"algorithm", "any", "array", "atomic", "barrier", "bit", "bitset",
	"cassert", "cctype", "cerrno", "cfenv", "cfloat", "charconv", "chrono",
	"cinttypes", "climits", "clocale", "cmath", "codecvt", "compare",
	"complex", "concepts", "condition_variable", "coroutine", "csetjmp",
	"csignal", "cstdarg", "cstddef", "cstdint", "cstdio", "cstdlib",
	"cstring", "ctime", "cuchar", "cwchar", "cwctype", "deque", "exception",
	"execution", "expected", "filesystem", "format", "forward_list",
	"fstream", "functional", "future", "initializer_list", "iomanip", "ios",
	"iosfwd", "iostream", "istream", "iterator", "latch", "limits", "list",
	"locale", "map", "memory", "memory_resource", "mutex", "new", "numbers",
	"numeric", "optional", "ostream", "queue", "random", "ranges", "ratio",
	"regex", "scoped_allocator", "semaphore", "set", "shared_mutex",
	"source_location", "span", "sstream", "stack", "stdexcept", "stop_token",
	"streambuf", "string", "string_view", "syncstream", "system_error",
	"thread", "tuple", "type_traits", "typeindex", "typeinfo",
	"unordered_map", "unordered_set", "utility", "valarray", "variant",
	"vector", "version",

	// POSIX and common platform headers
	"dirent.h", "dlfcn.h", "fcntl.h", "glob.h", "grp.h", "netdb.h",
	"poll.h", "pthread.h", "pwd.h", "sched.h", "semaphore.h", "strings.h",
	"syslog.h", "termios.h", "unistd.h", "utime.h",
	"arpa/inet.h", "netinet/in.h", "netinet/tcp.h",
	"sys/epoll.h", "sys/ioctl.h", "sys/mman.h", "sys/resource.h",
	"sys/select.h", "sys/socket.h", "sys/stat.h", "sys/time.h",
	"sys/types.h", "sys/uio.h", "sys/un.h", "sys/wait.h",
	"windows.h", "winsock2.h", "ws2tcpip.h", "intrin.h",
	"immintrin.h", "emmintrin.h", "xmmintrin.h",
}

// defaultExternals maps well-known library headers, lower-cased, to the
// synthetic component that provides them.
var defaultExternals = []External{
	{Header: "sdl2/sdl.h", Component: "SDL2"},
	{Header: "sdl2/sdl_opengl.h", Component: "GL"},
	{Header: "gl/glew.h", Component: "GLEW"},
}
