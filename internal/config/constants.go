package config

// SourceFileExt is the canonical assembly source extension.
const SourceFileExt = ".svm"

// SourceFileExtensions are all recognized source file extensions.
var SourceFileExtensions = []string{SourceFileExt, ".asm"}

// BytecodeFileExt is the extension for encoded word streams.
const BytecodeFileExt = ".svmc"

// ConfigFileName is the project configuration file looked up in the
// working directory when -config is not given.
const ConfigFileName = "stackvm.yaml"

// DefaultRegistryPath is where the program registry database lives when
// the configuration does not name one.
const DefaultRegistryPath = "stackvm.db"
