package propbag

// Version is the current version of the propbag module. Tables built
// against the same minor version decode identically.
const Version = "1.1.0"
