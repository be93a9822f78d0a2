package config

// Dynamo selects the job record store. A nil Dynamo keeps job records in
// process memory.
type Dynamo interface {
	GetTableName() string
}

var _ Dynamo = ProdDynamo{}

type ProdDynamo struct {
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	TableName       string
}

func (p ProdDynamo) GetTableName() string { return p.TableName }

var _ Dynamo = LocalDynamo{}

type LocalDynamo struct {
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	Host            string
	TableName       string
}

func (l LocalDynamo) GetTableName() string { return l.TableName }
