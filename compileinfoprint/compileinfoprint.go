// compileinfoprint is imported for the side effect of printing the compileinfo
// banner to os.Stderr before any interpolation output is produced.
package compileinfoprint

import "github.com/carbocation/interpolatecm/compileinfo"

func init() {
	compileinfo.PrintToStdErr()
}
