/*
Package contracts provides access to the Vault contract artifacts: compiled
NEF and manifest pairs stored on disk or built from Go sources.
*/
package contracts

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/nspcc-dev/neo-go/cli/smartcontract"
	"github.com/nspcc-dev/neo-go/pkg/compiler"
	"github.com/nspcc-dev/neo-go/pkg/io"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
)

const (
	// VaultDir is a name of the Vault contract directory, both for sources
	// and for compiled artifacts.
	VaultDir = "vault"

	nefName      = "contract.nef"
	manifestName = "manifest.json"
	configName   = "config.yml"
)

// Contract groups information about Neo contract ready to be deployed.
type Contract struct {
	NEF      nef.File
	Manifest manifest.Manifest
}

var (
	errInvalidNEF      = errors.New("invalid NEF")
	errInvalidManifest = errors.New("invalid manifest")
	errInvalidConfig   = errors.New("invalid contract config")
)

// Read reads compiled contracts from the given subdirectories of root. Each
// subdirectory must contain contract.nef and manifest.json files. Contracts
// are returned in the requested order.
func Read(root string, dirs ...string) ([]Contract, error) {
	return read(os.DirFS(root), dirs)
}

// read same as Read by allows to override source fs.FS.
func read(_fs fs.FS, dirs []string) ([]Contract, error) {
	var res = make([]Contract, 0, len(dirs))

	for i := range dirs {
		c, err := readContractFromDir(_fs, dirs[i])
		if err != nil {
			return nil, fmt.Errorf("read contract %s: %w", dirs[i], err)
		}

		res = append(res, c)
	}

	return res, nil
}

func readContractFromDir(_fs fs.FS, dir string) (Contract, error) {
	var c Contract

	// fs.FS uses "/" even on Windows, so filepath.Join() is not applicable.
	fNEF, err := _fs.Open(dir + "/" + nefName)
	if err != nil {
		return c, fmt.Errorf("open NEF: %w", err)
	}
	defer fNEF.Close()

	fManifest, err := _fs.Open(dir + "/" + manifestName)
	if err != nil {
		return c, fmt.Errorf("open manifest: %w", err)
	}
	defer fManifest.Close()

	bReader := io.NewBinReaderFromIO(fNEF)
	c.NEF.DecodeBinary(bReader)
	if bReader.Err != nil {
		return c, fmt.Errorf("%w: %v", errInvalidNEF, bReader.Err)
	}

	err = json.NewDecoder(fManifest).Decode(&c.Manifest)
	if err != nil {
		return c, fmt.Errorf("%w: %v", errInvalidManifest, err)
	}

	return c, nil
}

// Compile builds the contract from Go sources located in srcDir. Manifest
// settings are taken from the config.yml file of the same directory.
func Compile(srcDir string) (Contract, error) {
	var c Contract

	avm, di, err := compiler.CompileWithOptions(srcDir, nil, nil)
	if err != nil {
		return c, fmt.Errorf("compile %s: %w", srcDir, err)
	}

	conf, err := smartcontract.ParseContractConfig(filepath.Join(srcDir, configName))
	if err != nil {
		return c, fmt.Errorf("%w: %v", errInvalidConfig, err)
	}

	o := &compiler.Options{
		Name:                       conf.Name,
		ContractEvents:             conf.Events,
		ContractSupportedStandards: conf.SupportedStandards,
		SafeMethods:                conf.SafeMethods,
		Overloads:                  conf.Overloads,
	}

	o.Permissions = make([]manifest.Permission, len(conf.Permissions))
	for i := range conf.Permissions {
		o.Permissions[i] = manifest.Permission(conf.Permissions[i])
	}

	m, err := compiler.CreateManifest(di, o)
	if err != nil {
		return c, fmt.Errorf("%w: %v", errInvalidManifest, err)
	}

	c.NEF = *avm
	c.Manifest = *m

	return c, nil
}

// Write stores the contract in the dir subdirectory of root in the format
// accepted by Read.
func Write(root, dir string, c Contract) error {
	target := filepath.Join(root, dir)

	err := os.MkdirAll(target, 0o755)
	if err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	bNEF, err := c.NEF.Bytes()
	if err != nil {
		return fmt.Errorf("%w: %v", errInvalidNEF, err)
	}

	jManifest, err := json.Marshal(c.Manifest)
	if err != nil {
		return fmt.Errorf("%w: %v", errInvalidManifest, err)
	}

	err = os.WriteFile(filepath.Join(target, nefName), bNEF, 0o644)
	if err != nil {
		return fmt.Errorf("write NEF: %w", err)
	}

	err = os.WriteFile(filepath.Join(target, manifestName), jManifest, 0o644)
	if err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	return nil
}
