package database

type Order struct {
	ID        int    `db:"ID"`
	POS_ID    string `db:"PosID"`
	DOSHII_ID string `db:"DoshiiID"`
	STATUS    string `db:"Status"`
	TYPE      string `db:"Type"`
	VERSION   string `db:"Version"`
	CHECKIN   string `db:"CheckinID"`
	CONSUMER  string `db:"Consumer"`
}

type Transaction struct {
	ID      int    `db:"ID"`
	TRX_ID  string `db:"TrxID"`
	ORDER   string `db:"PosOrderID"`
	STATUS  string `db:"Status"`
	VERSION string `db:"Version"`
	AMOUNT  int64  `db:"Amount"`
	PAID    int    `db:"Paid"`
}

type Booking struct {
	ID         int    `db:"ID"`
	BOOKING_ID string `db:"BookingID"`
	PAYLOAD    string `db:"Payload"`
}

type Member struct {
	ID        int    `db:"ID"`
	MEMBER_ID string `db:"MemberID"`
	PAYLOAD   string `db:"Payload"`
}

type App struct {
	ID      int    `db:"ID"`
	APP_ID  string `db:"AppID"`
	PAYLOAD string `db:"Payload"`
}

const DB_SCHEMA = `CREATE TABLE Orders (
	ID integer PRIMARY KEY AUTOINCREMENT,
	PosID text UNIQUE,
	DoshiiID text,
	Status text,
	Type text,
	Version text,
	CheckinID text,
	Consumer text
);

CREATE TABLE Transactions (
	ID integer PRIMARY KEY AUTOINCREMENT,
	TrxID text UNIQUE,
	PosOrderID text,
	Status text,
	Version text,
	Amount integer,
	Paid integer
);

CREATE TABLE Bookings (
	ID integer PRIMARY KEY AUTOINCREMENT,
	BookingID text UNIQUE,
	Payload text
);

CREATE TABLE Members (
	ID integer PRIMARY KEY AUTOINCREMENT,
	MemberID text UNIQUE,
	Payload text
);

CREATE TABLE Apps (
	ID integer PRIMARY KEY AUTOINCREMENT,
	AppID text UNIQUE,
	Payload text
);
`
