package configuration

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/donnyhardyanto/dxdata/log"
	"github.com/donnyhardyanto/dxdata/utils"
	dxdataOs "github.com/donnyhardyanto/dxdata/utils/os"
	hashicorp_vault "github.com/donnyhardyanto/dxdata/utils/vault"
)

type DXConfiguration struct {
	NameId    string
	FileName  string
	MustExist bool
	IsLoaded  bool
	Data      *utils.JSON
}

func (c *DXConfiguration) Load(vaultServer *hashicorp_vault.VaultServer, vaultPath string) (err error) {
	_, err = os.Stat(c.FileName)
	if os.IsNotExist(err) {
		if c.MustExist {
			return log.Log.FatalAndCreateErrorf("Mandatory configuration file %s of configuration %s not found", c.FileName, c.NameId)
		}
		return log.Log.WarnAndCreateErrorf("Configuration file %s of configuration %s not found", c.FileName, c.NameId)
	}
	raw, err := os.ReadFile(c.FileName)
	if err != nil {
		return log.Log.ErrorAndCreateErrorf("Error reading configuration file %s (%v)", c.FileName, err.Error())
	}

	// Environment variables first, Vault placeholders after, so an env value
	// may itself carry a __VAULT__ placeholder.
	s := os.ExpandEnv(string(raw))
	if vaultServer != nil {
		s = vaultServer.VaultMapString(vaultPath, s)
	}

	d := utils.JSON{}
	err = yaml.Unmarshal([]byte(s), &d)
	if err != nil {
		return log.Log.ErrorAndCreateErrorf("Error parsing configuration file %s (%v)", c.FileName, err.Error())
	}
	c.Data = &d
	c.IsLoaded = true
	return nil
}

type DXConfigurationManager struct {
	Configurations map[string]*DXConfiguration
	Vault          *hashicorp_vault.VaultServer
	VaultPath      string
}

var Manager = DXConfigurationManager{
	Configurations: map[string]*DXConfiguration{},
}

// UseVaultFromEnvironment turns on __VAULT__ placeholder resolution using
// the standard Vault environment variables.
func (m *DXConfigurationManager) UseVaultFromEnvironment() {
	m.Vault = &hashicorp_vault.VaultServer{
		Address: dxdataOs.GetEnvDefaultValue("VAULT_ADDRESS", "http://127.0.0.1:8200"),
		Token:   dxdataOs.GetEnvDefaultValue("VAULT_TOKEN", ""),
		Prefix:  dxdataOs.GetEnvDefaultValue("VAULT_PREFIX", "__VAULT__"),
	}
	m.VaultPath = dxdataOs.GetEnvDefaultValue("VAULT_PATH", "secret/data/storage")
}

func (m *DXConfigurationManager) NewConfiguration(nameId string, fileName string, mustExist bool) *DXConfiguration {
	c := &DXConfiguration{
		NameId:    nameId,
		FileName:  fileName,
		MustExist: mustExist,
	}
	m.Configurations[nameId] = c
	return c
}

func (m *DXConfigurationManager) Load() (err error) {
	if m.Vault != nil {
		m.Vault.Setup()
	}
	for _, c := range m.Configurations {
		err = c.Load(m.Vault, m.VaultPath)
		if err != nil {
			if c.MustExist {
				return err
			}
			continue
		}
		log.Log.Infof("Loading configuration %s from %s... done", c.NameId, c.FileName)
	}
	return nil
}
