package ast

type (
	// главные сущности
	ItemID uint32
	StmtID uint32
	ExprID uint32
	TypeID uint32
	PatID  uint32
	// подсущности
	PayloadID uint32
)

const (
	NoItemID    ItemID    = 0
	NoStmtID    StmtID    = 0
	NoExprID    ExprID    = 0
	NoTypeID    TypeID    = 0
	NoPatID     PatID     = 0
	NoPayloadID PayloadID = 0
)

func (id ItemID) IsValid() bool    { return id != NoItemID }
func (id StmtID) IsValid() bool    { return id != NoStmtID }
func (id ExprID) IsValid() bool    { return id != NoExprID }
func (id TypeID) IsValid() bool    { return id != NoTypeID }
func (id PatID) IsValid() bool     { return id != NoPatID }
func (id PayloadID) IsValid() bool { return id != NoPayloadID }
